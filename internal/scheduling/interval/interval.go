// Package interval holds the pure time-range math behind the scheduling
// engine: half-open minute intervals, occupied-set merging and free-gap
// computation within business hours. Everything here is stateless and safe
// to call concurrently.
package interval

import (
	"fmt"
	"sort"
)

// Interval is a half-open [Start, End) range expressed in minutes since
// midnight.
type Interval struct {
	Start int
	End   int
}

// Duration returns the interval length in minutes.
func (iv Interval) Duration() int {
	return iv.End - iv.Start
}

// Valid reports whether the interval is non-empty and within a single day.
func (iv Interval) Valid() bool {
	return iv.Start >= 0 && iv.End <= 24*60 && iv.Start < iv.End
}

// Overlaps reports whether two half-open intervals intersect.
// [a.Start, a.End) and [b.Start, b.End) overlap iff a.Start < b.End && b.Start < a.End.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Merge sorts intervals by start and coalesces overlapping or adjacent
// ranges into a minimal occupied set. The input slice is not modified.
func Merge(ivs []Interval) []Interval {
	if len(ivs) == 0 {
		return nil
	}

	sorted := make([]Interval, 0, len(ivs))
	for _, iv := range ivs {
		if iv.Duration() > 0 {
			sorted = append(sorted, iv)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// FreeGaps returns the complement of the occupied set within the business
// window, ascending by start time (fill-from-top order). Each gap is
// quantized to the granularity: the start is rounded up and the end rounded
// down to a multiple of granularity minutes, and gaps narrower than the
// granularity are dropped.
func FreeGaps(occupied []Interval, window Interval, granularity int) []Interval {
	if !window.Valid() {
		return nil
	}
	if granularity <= 0 {
		granularity = 1
	}

	var gaps []Interval
	cursor := window.Start
	for _, occ := range Merge(occupied) {
		if occ.End <= window.Start || occ.Start >= window.End {
			continue
		}
		if occ.Start > cursor {
			gaps = appendGap(gaps, Interval{Start: cursor, End: min(occ.Start, window.End)}, granularity)
		}
		if occ.End > cursor {
			cursor = occ.End
		}
	}
	if cursor < window.End {
		gaps = appendGap(gaps, Interval{Start: cursor, End: window.End}, granularity)
	}
	return gaps
}

func appendGap(gaps []Interval, gap Interval, granularity int) []Interval {
	gap.Start = roundUp(gap.Start, granularity)
	gap.End = roundDown(gap.End, granularity)
	if gap.Duration() < granularity {
		return gaps
	}
	return append(gaps, gap)
}

func roundUp(m, granularity int) int {
	if rem := m % granularity; rem != 0 {
		return m + granularity - rem
	}
	return m
}

func roundDown(m, granularity int) int {
	return m - m%granularity
}

// ParseClock converts an "HH:MM" string to minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid clock time %q (want HH:MM)", s)
	}
	var hours, mins int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hours, &mins); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if hours < 0 || hours > 23 || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return hours*60 + mins, nil
}

// FormatClock converts minutes since midnight to "HH:MM".
func FormatClock(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= 24*60 {
		m = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
