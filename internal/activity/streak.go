package activity

import (
	"math"
	"sort"
	"time"
)

// currentWindow is the number of most recent entries that may still move the
// current streak.
const currentWindow = 7

// Streaks holds the streak lengths, in days, derived from an entry list.
type Streaks struct {
	Current int
	Longest int
}

// ComputeStreaks computes streaks using the local time zone for calendar days.
func ComputeStreaks(entries []Entry) Streaks {
	return ComputeStreaksIn(entries, time.Local)
}

// ComputeStreaksIn walks the entries newest first. Only successful entries
// take part: a failed entry is skipped entirely, so it neither extends nor
// breaks a streak. Two successful neighbours continue a streak when they are
// at most one calendar day apart in loc. The current streak tracks the
// running streak only while the scan index is inside the first
// currentWindow positions of the sorted list.
func ComputeStreaksIn(entries []Entry, loc *time.Location) Streaks {
	if loc == nil {
		loc = time.Local
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	var (
		current, longest, run int
		last                  time.Time
		haveLast              bool
	)
	for i, e := range sorted {
		if !e.Success {
			continue
		}
		if !haveLast {
			run = 1
		} else if daysBetween(e.Timestamp, last, loc) <= 1 {
			run++
		} else {
			longest = max(longest, run)
			run = 1
		}
		if i < currentWindow {
			current = run
		}
		last = e.Timestamp
		haveLast = true
	}
	longest = max(longest, run)

	return Streaks{Current: current, Longest: longest}
}

// daysBetween returns the number of calendar days from earlier to later in loc.
func daysBetween(earlier, later time.Time, loc *time.Location) int {
	a := startOfDay(earlier, loc)
	b := startOfDay(later, loc)
	// Rounding absorbs 23h and 25h days around DST changes.
	return int(math.Round(b.Sub(a).Hours() / 24))
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
