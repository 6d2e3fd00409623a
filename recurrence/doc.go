/*
Package recurrence expands recurrence rules into concrete event
occurrences and answers point-in-time occurrence queries.

A rule is described by a Config: the first occurrence's start (and
optional end), one of five recurrence types (none, daily, weekly,
monthly, quarterly), and optional bounds — a last allowed date and a
maximum occurrence count.

# Basic Usage

	engine := recurrence.NewEngine()
	defer engine.Close()

	cfg := recurrence.Config{
		Start: start,
		Type:  recurrence.TypeWeekly,
		Count: 10,
	}
	instances := engine.GenerateInstances(cfg, windowStart, windowEnd)
	today := engine.OccursOnDate(cfg, time.Now())

# Month-End Clamping

Monthly and quarterly series anchor on the start date's day-of-month.
When a target month is too short, the occurrence clamps to the month's
last day, and later occurrences return to the anchor day:

	Jan 31 → Feb 29 → Mar 31 → Apr 30 → ...

# Count Accounting

Count bounds the whole series, not the query window: occurrences before
the window's start are skipped but still consume the budget, so Count=3
always means "the first three occurrences ever", whatever window is
asked for.

# Precision

GenerateInstances preserves full instants. OccursOnDate compares at
calendar-day granularity and ignores time-of-day on both sides. The two
agree for day-granular inputs; callers comparing sub-day times must use
GenerateInstances.

# Caching

The default engine memoizes results with a TTL cache (see EngineConfig
and Cache). Expansion is deterministic, so caching never changes an
answer. Use DisabledCacheConfig to recompute every call.
*/
package recurrence
