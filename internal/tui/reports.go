package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dailycommit/internal/activity"
)

type reportsModel struct {
	log    *activity.Log
	width  int
	height int

	days   int // 7 or 14
	counts []activity.DailyCount
	stats  activity.Stats

	chart barchart.Model
}

func newReportsModel(log *activity.Log) reportsModel {
	return reportsModel{
		log:   log,
		days:  7,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	counts []activity.DailyCount
	stats  activity.Stats
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		loc := r.log.Location()
		from, to := r.dateRange(time.Now(), loc)
		counts := activity.DailyCounts(r.log.Entries(), from, to, loc)
		return reportsDataMsg{counts: counts, stats: r.log.Stats()}
	}
}

// dateRange covers the last r.days calendar days, today included.
func (r reportsModel) dateRange(now time.Time, loc *time.Location) (time.Time, time.Time) {
	now = now.In(loc)
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, loc)
	return tomorrow.AddDate(0, 0, -r.days), tomorrow
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.counts = msg.counts
		r.stats = msg.stats
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Range) {
			if r.days == 7 {
				r.days = 14
			} else {
				r.days = 7
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	okStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	failStyle := lipgloss.NewStyle().Foreground(colorError)

	labelFormat := "Mon 02"
	if r.days > 7 {
		labelFormat = "02"
	}

	var bars []barchart.BarData
	for _, c := range r.counts {
		bars = append(bars, barchart.BarData{
			Label: c.Date.Format(labelFormat),
			Values: []barchart.BarValue{
				{Name: "Pushed", Value: float64(c.Successes), Style: okStyle},
				{Name: "Failed", Value: float64(c.Failures), Style: failStyle},
			},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	sevenTab := inactiveTabStyle.Render("7 days")
	fourteenTab := inactiveTabStyle.Render("14 days")
	if r.days == 7 {
		sevenTab = activeTabStyle.Render("7 days")
	} else {
		fourteenTab = activeTabStyle.Render("14 days")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, sevenTab, fourteenTab)

	dateLabel := ""
	if len(r.counts) > 0 {
		first, last := r.counts[0].Date, r.counts[len(r.counts)-1].Date
		dateLabel = mutedStyle.Render(fmt.Sprintf("%s to %s", first.Format("Jan 02"), last.Format("Jan 02, 2006")))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	legend := fmt.Sprintf("  %s Pushed  %s Failed",
		successStyle.Render("●"), errorStyle.Render("●"))

	nav := mutedStyle.Render("  r: toggle 7/14 days")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", legend, "", r.renderTotals(w), "", nav,
		),
	)
}

func (r reportsModel) renderTotals(w int) string {
	var ok, failed, active int
	for _, c := range r.counts {
		ok += c.Successes
		failed += c.Failures
		if c.Successes > 0 {
			active++
		}
	}
	if ok+failed == 0 {
		return mutedStyle.Render("  No commits in this period")
	}

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-18s %8s", "Period", "")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 28))),
		fmt.Sprintf("  %-18s %8d", "Pushed", ok),
		fmt.Sprintf("  %-18s %8d", "Failed", failed),
		fmt.Sprintf("  %-18s %8s", "Active days", fmt.Sprintf("%d/%d", active, len(r.counts))),
		fmt.Sprintf("  %-18s %8s", "Current streak", pluralize(r.stats.CurrentStreak, "day", "days")),
		fmt.Sprintf("  %-18s %8s", "Longest streak", pluralize(r.stats.LongestStreak, "day", "days")),
	}
	return strings.Join(rows, "\n")
}
