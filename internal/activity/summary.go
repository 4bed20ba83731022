package activity

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// summaryRecent is how many entries the summary lists.
const summaryRecent = 10

// Summary renders the current history as the text pushed to the remote.
// now is printed as the generation time; nothing else depends on it.
func (l *Log) Summary(now time.Time) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return RenderSummary(l.entries, l.stats, now.In(l.location))
}

// RenderSummary formats stats and the most recent entries as plain text.
func RenderSummary(entries []Entry, st Stats, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Daily Commit Log\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05 MST"))

	b.WriteString("## Statistics\n\n")
	fmt.Fprintf(&b, "- Total commits: %d\n", st.TotalCommits)
	fmt.Fprintf(&b, "- Successful: %d\n", st.SuccessfulCommits)
	fmt.Fprintf(&b, "- Failed: %d\n", st.FailedCommits)
	fmt.Fprintf(&b, "- Success rate: %.1f%%\n", st.SuccessRate())
	fmt.Fprintf(&b, "- Total size: %s\n", humanize.Bytes(uint64(st.TotalFileSizeBytes)))
	fmt.Fprintf(&b, "- Current streak: %s\n", pluralDays(st.CurrentStreak))
	fmt.Fprintf(&b, "- Longest streak: %s\n", pluralDays(st.LongestStreak))

	b.WriteString("\n## Recent Activity\n\n")
	if len(entries) == 0 {
		b.WriteString("No commits yet.\n")
		return b.String()
	}
	for i, e := range entries {
		if i == summaryRecent {
			break
		}
		mark := "ok"
		if !e.Success {
			mark = "failed"
		}
		fmt.Fprintf(&b, "- %s [%s] %s (%s)\n",
			e.Timestamp.In(now.Location()).Format("2006-01-02 15:04"),
			mark,
			e.Message,
			humanize.Bytes(uint64(e.FileSizeBytes)),
		)
	}
	return b.String()
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
