package model

import (
	"fmt"
	"time"
)

// Timeframe is the enumerated recency window for a feed request, or the
// special "latest" mode. The zero value means no timeframe was requested.
type Timeframe string

const (
	TimeframeNone     Timeframe = ""
	TimeframeDay      Timeframe = "day"
	TimeframeWeek     Timeframe = "week"
	TimeframeMonth    Timeframe = "month"
	TimeframeYear     Timeframe = "year"
	TimeframeInfinity Timeframe = "infinity"
	TimeframeLatest   Timeframe = "latest"
)

// ParseTimeframe validates a caller-supplied timeframe string. Unknown
// values are an error, never silently coerced.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeNone, TimeframeDay, TimeframeWeek, TimeframeMonth,
		TimeframeYear, TimeframeInfinity, TimeframeLatest:
		return Timeframe(s), nil
	default:
		return TimeframeNone, fmt.Errorf("unsupported timeframe %q", s)
	}
}

// Bounded reports whether the timeframe restricts candidates to a window.
func (t Timeframe) Bounded() bool {
	switch t {
	case TimeframeDay, TimeframeWeek, TimeframeMonth, TimeframeYear, TimeframeInfinity:
		return true
	}
	return false
}

// Window returns the cutoff duration for a bounded timeframe. Infinity
// returns (0, false): bounded in kind but unbounded in time.
func (t Timeframe) Window() (time.Duration, bool) {
	switch t {
	case TimeframeDay:
		return 24 * time.Hour, true
	case TimeframeWeek:
		return 7 * 24 * time.Hour, true
	case TimeframeMonth:
		return 30 * 24 * time.Hour, true
	case TimeframeYear:
		return 365 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// Cutoff returns the earliest admissible publication time for the
// timeframe, or the zero time when the window is unbounded.
func (t Timeframe) Cutoff(now time.Time) time.Time {
	if w, ok := t.Window(); ok {
		return now.Add(-w)
	}
	return time.Time{}
}
