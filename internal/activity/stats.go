package activity

import "time"

// Stats is derived from the entry list and is never persisted on its own.
type Stats struct {
	TotalCommits       int   `json:"totalCommits"`
	SuccessfulCommits  int   `json:"successfulCommits"`
	FailedCommits      int   `json:"failedCommits"`
	TotalFileSizeBytes int64 `json:"totalFileSizeBytes"`
	CurrentStreak      int   `json:"currentStreak"`
	LongestStreak      int   `json:"longestStreak"`
}

// SuccessRate returns the share of successful commits in percent.
func (s Stats) SuccessRate() float64 {
	if s.TotalCommits == 0 {
		return 0
	}
	return float64(s.SuccessfulCommits) / float64(s.TotalCommits) * 100
}

// CalculateStats aggregates counts and sizes and computes streaks in loc.
func CalculateStats(entries []Entry, loc *time.Location) Stats {
	var st Stats
	for _, e := range entries {
		st.TotalCommits++
		if e.Success {
			st.SuccessfulCommits++
		} else {
			st.FailedCommits++
		}
		st.TotalFileSizeBytes += e.FileSizeBytes
	}
	streaks := ComputeStreaksIn(entries, loc)
	st.CurrentStreak = streaks.Current
	st.LongestStreak = streaks.Longest
	return st
}

// DailyCount is the number of successful and failed entries on one day.
type DailyCount struct {
	Date      time.Time
	Successes int
	Failures  int
}

// DailyCounts buckets entries into calendar days in loc, covering the days
// in [from, to). Days without entries are included with zero counts.
func DailyCounts(entries []Entry, from, to time.Time, loc *time.Location) []DailyCount {
	if loc == nil {
		loc = time.Local
	}
	start := startOfDay(from, loc)
	end := startOfDay(to, loc)

	var days []DailyCount
	index := make(map[string]int)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		index[d.Format(time.DateOnly)] = len(days)
		days = append(days, DailyCount{Date: d})
	}

	for _, e := range entries {
		i, ok := index[e.Timestamp.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		if e.Success {
			days[i].Successes++
		} else {
			days[i].Failures++
		}
	}
	return days
}
