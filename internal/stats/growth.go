// Package stats provides the pure aggregation primitives behind pkgdb's
// tables and reports: period-over-period growth, sparkline encoding, and
// environment breakdown aggregation. Every function is a deterministic
// transform over immutable inputs; absence of data is a value, not an error.
package stats

import (
	"time"
)

// Default lookback windows, in days. The growth window is a policy choice,
// not a law of nature, so callers can pass any window they want; these are
// the ones the CLI uses.
const (
	WeekLookbackDays  = 7
	MonthLookbackDays = 28
)

// Observation is one dated value from a package's history.
type Observation struct {
	Date  time.Time
	Value int64
}

// Growth is the result of a period-over-period growth computation.
// Defined is false when there is no usable prior observation, or when the
// prior value is zero with a non-zero current value (an infinite percentage
// is reported as undefined rather than computed). When both values are zero
// the growth is defined and exactly 0%.
type Growth struct {
	Current  int64   `json:"current"`
	Previous int64   `json:"previous"`
	Defined  bool    `json:"defined"`
	Percent  float64 `json:"percent"`
}

// ComputeGrowth returns the percentage change between the most recent
// observation and the latest observation dated at or before the most recent
// date minus lookbackDays. The history must be ordered ascending by date;
// irregular cadence is fine, exact alignment to the window is never required.
//
// A history with fewer than two observations, or with no observation old
// enough, yields an undefined result.
func ComputeGrowth(history []Observation, lookbackDays int) Growth {
	if len(history) < 2 {
		return Growth{}
	}

	current := history[len(history)-1]
	cutoff := current.Date.AddDate(0, 0, -lookbackDays)

	// Walk backwards to the newest observation at or before the cutoff.
	var previous *Observation
	for i := len(history) - 2; i >= 0; i-- {
		if !history[i].Date.After(cutoff) {
			previous = &history[i]
			break
		}
	}
	if previous == nil {
		return Growth{Current: current.Value}
	}

	g := Growth{Current: current.Value, Previous: previous.Value}
	switch {
	case previous.Value == 0 && current.Value == 0:
		g.Defined = true
		g.Percent = 0
	case previous.Value == 0:
		// Zero-to-nonzero jump: undefined rather than infinite.
	default:
		g.Defined = true
		g.Percent = float64(current.Value-previous.Value) / float64(previous.Value) * 100
	}
	return g
}

// GrowthBetween computes growth directly from a current and an optional
// previous value. A nil previous means no prior data.
func GrowthBetween(current int64, previous *int64) Growth {
	if previous == nil {
		return Growth{Current: current}
	}
	g := Growth{Current: current, Previous: *previous}
	switch {
	case *previous == 0 && current == 0:
		g.Defined = true
	case *previous == 0:
	default:
		g.Defined = true
		g.Percent = float64(current-*previous) / float64(*previous) * 100
	}
	return g
}
