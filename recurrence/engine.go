package recurrence

import (
	"time"

	"github.com/samber/mo"
)

// Engine expands recurrence configurations into concrete occurrences and
// answers point-in-time occurrence queries. All operations are
// deterministic functions of their inputs; the optional cache only
// memoizes results and never changes them, so an Engine is safe for
// concurrent use without coordination.
type Engine struct {
	cache  *Cache
	config EngineConfig
}

// NewEngine creates an engine with DefaultEngineConfig.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// NextOccurrence advances from by exactly one period of typ.
//
// Monthly and quarterly steps clamp at month end: when the naive month
// addition overflows into the following month (the target month is
// shorter, e.g. Jan 31 + 1 month lands on Mar 2/3), the result snaps
// back to the last day of the intended month. TypeNone and unknown
// types return from unchanged.
func NextOccurrence(typ Type, from time.Time) time.Time {
	return advance(typ, from, 1)
}

// advance computes the date periods steps after anchor. The walk always
// advances from the series anchor rather than chaining clamped results,
// so a series starting on the 31st returns to the 31st in long months
// (Jan 31, Feb 29, Mar 31, ...) instead of sticking to the shortest
// month seen so far.
func advance(typ Type, anchor time.Time, periods int) time.Time {
	switch typ {
	case TypeDaily:
		return anchor.AddDate(0, 0, periods)
	case TypeWeekly:
		return anchor.AddDate(0, 0, 7*periods)
	case TypeMonthly:
		return addMonthsClamped(anchor, periods)
	case TypeQuarterly:
		return addMonthsClamped(anchor, 3*periods)
	}
	return anchor
}

// addMonthsClamped adds months calendar months to t. A changed
// day-of-month after the naive addition means the addition overflowed
// into the next month (the target month is shorter); day 0 of the
// overflowed month is the last day of the intended one.
func addMonthsClamped(t time.Time, months int) time.Time {
	next := t.AddDate(0, months, 0)
	if next.Day() != t.Day() {
		next = time.Date(next.Year(), next.Month(), 0,
			t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	}
	return next
}

// GenerateInstances produces every occurrence whose start falls within
// [rangeStart, rangeEnd], in ascending order. The walk begins at
// cfg.Start even when that precedes the window: occurrences stepped
// over before rangeStart still consume the Count budget, so Count
// always means "the first N occurrences of the series", independent of
// the query window.
//
// The call is restartable: identical arguments reproduce the identical
// sequence. Full instants are preserved; no day truncation happens here
// (contrast OccursOnDate).
func (e *Engine) GenerateInstances(cfg Config, rangeStart, rangeEnd time.Time) []Instance {
	if e.cache != nil {
		if cached, ok := e.cache.get(opGenerate, cfg, rangeStart, rangeEnd); ok {
			return cached.([]Instance)
		}
	}

	instances := e.generate(cfg, rangeStart, rangeEnd)

	if e.cache != nil {
		e.cache.set(opGenerate, cfg, rangeStart, rangeEnd, instances)
	}
	return instances
}

func (e *Engine) generate(cfg Config, rangeStart, rangeEnd time.Time) []Instance {
	if cfg.Type == TypeNone || !cfg.Type.Valid() {
		if cfg.Start.Before(rangeStart) || cfg.Start.After(rangeEnd) {
			return nil
		}
		return []Instance{e.instanceAt(cfg, cfg.Start)}
	}

	var instances []Instance
	prev := cfg.Start
	for visited := 0; ; visited++ {
		current := advance(cfg.Type, cfg.Start, visited)
		if visited > 0 && !current.After(prev) {
			// Degenerate step back to the anchor; stop rather than
			// loop forever.
			break
		}
		prev = current

		if cfg.Until != nil && current.After(*cfg.Until) {
			break
		}
		if current.After(rangeEnd) {
			break
		}
		if cfg.Count > 0 && visited >= cfg.Count {
			break
		}
		if !current.Before(rangeStart) {
			instances = append(instances, e.instanceAt(cfg, current))
		}
	}
	return instances
}

func (e *Engine) instanceAt(cfg Config, start time.Time) Instance {
	end := mo.None[time.Time]()
	if d, ok := cfg.Duration().Get(); ok {
		end = mo.Some(start.Add(d))
	}
	return Instance{Start: start, End: end}
}

// OccursOnDate reports whether any occurrence of cfg starts on the same
// calendar day as day. Unlike GenerateInstances, the comparison is
// day-granular: time-of-day on both sides is ignored.
//
// The walk is bounded by the engine's step ceiling
// (EngineConfig.MaxWalkSteps); hitting the ceiling returns false rather
// than looping.
func (e *Engine) OccursOnDate(cfg Config, day time.Time) bool {
	if e.cache != nil {
		if cached, ok := e.cache.get(opOccurs, cfg, day, day); ok {
			return cached.(bool)
		}
	}

	result := e.occursOn(cfg, day)

	if e.cache != nil {
		e.cache.set(opOccurs, cfg, day, day, result)
	}
	return result
}

func (e *Engine) occursOn(cfg Config, day time.Time) bool {
	target := truncateToDay(day)
	if cfg.Type == TypeNone || !cfg.Type.Valid() {
		return truncateToDay(cfg.Start).Equal(target)
	}
	if target.Before(truncateToDay(cfg.Start)) {
		return false
	}
	if cfg.Until != nil && target.After(truncateToDay(*cfg.Until)) {
		return false
	}

	ceiling := e.config.MaxWalkSteps
	if ceiling <= 0 {
		ceiling = DefaultMaxWalkSteps
	}

	prev := cfg.Start
	for visited := 0; visited < ceiling; visited++ {
		current := advance(cfg.Type, cfg.Start, visited)
		if visited > 0 && !current.After(prev) {
			return false
		}
		prev = current

		currentDay := truncateToDay(current)
		if currentDay.Equal(target) {
			return true
		}
		if currentDay.After(target) {
			return false
		}
		if cfg.Count > 0 && visited+1 >= cfg.Count {
			return false
		}
	}
	return false
}

// truncateToDay drops the time-of-day component, keeping the location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
