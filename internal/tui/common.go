package tui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sadopc/dailycommit/internal/activity"
	"github.com/sadopc/dailycommit/internal/commit"
	"github.com/sadopc/dailycommit/internal/config"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewHistory
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "History", "Reports", "Settings"}

// --- Messages ---

type pushStartedMsg struct{}

type pushDoneMsg struct {
	outcome commit.Outcome
}

type historyClearedMsg struct{}

type configSavedMsg struct {
	cfg config.Config
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

func formatTimestamp(t time.Time) string {
	return t.Local().Format("Jan 02 15:04")
}

func formatRate(st activity.Stats) string {
	return fmt.Sprintf("%.0f%%", st.SuccessRate())
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}

func statusMark(ok bool) string {
	if ok {
		return successStyle.Render("✓")
	}
	return errorStyle.Render("✗")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
