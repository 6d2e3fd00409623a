package recurrence

import (
	"time"

	"github.com/samber/mo"
)

// Type identifies the periodic pattern governing how one occurrence's
// date yields the next. The string values match the spellings commonly
// stored in event records.
type Type string

const (
	TypeNone      Type = "none"
	TypeDaily     Type = "daily"
	TypeWeekly    Type = "weekly"
	TypeMonthly   Type = "monthly"
	TypeQuarterly Type = "quarterly"
)

// Valid reports whether t is one of the five known recurrence types.
func (t Type) Valid() bool {
	switch t {
	case TypeNone, TypeDaily, TypeWeekly, TypeMonthly, TypeQuarterly:
		return true
	}
	return false
}

// Config describes one event's recurrence. It is constructed by the
// caller per query and never retained by the engine.
type Config struct {
	Start time.Time  // start of the first occurrence
	End   *time.Time // end of the first occurrence; nil means no end time
	Type  Type       // periodic pattern
	Until *time.Time // hard upper bound on occurrence dates; nil means unbounded
	Count int        // hard upper bound on occurrences generated; 0 means unbounded
}

// Duration returns the fixed start-to-end offset shared by every
// generated instance, or None when the config has no end time.
func (c Config) Duration() mo.Option[time.Duration] {
	if c.End == nil {
		return mo.None[time.Duration]()
	}
	return mo.Some(c.End.Sub(c.Start))
}

// Instance is one concrete realization of a recurring event. End is
// Start shifted by the config's fixed duration, or None when the config
// has no end time.
//
// Instance deliberately carries no all-day flag: the engine does not
// compute one, so the result type does not claim one. Callers that know
// the underlying event (see store/memory) overlay it on their own
// occurrence type.
type Instance struct {
	Start time.Time
	End   mo.Option[time.Time]
}
