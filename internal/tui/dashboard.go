package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/dailycommit/internal/activity"
	"github.com/sadopc/dailycommit/internal/commit"
	"github.com/sadopc/dailycommit/internal/config"
)

const recentLimit = 5

type dashboardModel struct {
	log       *activity.Log
	committer *commit.Committer
	cfg       config.Config
	width     int
	height    int

	stats  activity.Stats
	recent []activity.Entry

	// Push state. The trigger is ignored while a push is in flight.
	pushing bool
	spinner spinner.Model
	last    *commit.Outcome

	formActive bool
	form       *huh.Form
	message    *string
}

func newDashboardModel(log *activity.Log, c *commit.Committer, cfg config.Config) dashboardModel {
	msg := ""
	return dashboardModel{
		log:       log,
		committer: c,
		cfg:       cfg,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(colorPrimary)),
		),
		message: &msg,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	stats  activity.Stats
	recent []activity.Entry
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		entries := d.log.Entries()
		if len(entries) > recentLimit {
			entries = entries[:recentLimit]
		}
		return dashboardDataMsg{stats: d.log.Stats(), recent: entries}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.stats = msg.stats
		d.recent = msg.recent
		return d, nil

	case configSavedMsg:
		d.cfg = msg.cfg
		return d, nil

	case spinner.TickMsg:
		if !d.pushing {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case pushDoneMsg:
		d.pushing = false
		out := msg.outcome
		d.last = &out
		return d, d.loadData()
	}

	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Push) {
			return d.showForm()
		}
	}
	return d, nil
}

func (d dashboardModel) showForm() (dashboardModel, tea.Cmd) {
	if d.pushing {
		return d, func() tea.Msg {
			return statusMsg{text: "A push is already in progress"}
		}
	}
	if err := d.cfg.Validate(); err != nil {
		return d, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Cannot push: %v (press 4 for settings)", err), isError: true}
		}
	}

	*d.message = d.cfg.CommitMessage
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Commit message").
				Description("Pushed to " + d.cfg.RepoSlug() + ":" + d.cfg.Path).
				Value(d.message),
		),
	).WithShowHelp(true)
	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		d.form = nil
		return d.startPush(*d.message)
	}

	return d, cmd
}

func (d dashboardModel) startPush(message string) (dashboardModel, tea.Cmd) {
	if d.pushing {
		return d, nil
	}
	d.pushing = true
	c, cfg := d.committer, d.cfg
	push := func() tea.Msg {
		return pushDoneMsg{outcome: c.Run(context.Background(), cfg, message)}
	}
	return d, tea.Batch(
		d.spinner.Tick,
		func() tea.Msg { return pushStartedMsg{} },
		push,
	)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("New Push")
		return activePanelStyle.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()),
		)
	}

	half := contentWidth/2 - 1
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		d.renderStatsPanel(half),
		" ",
		d.renderStreakPanel(contentWidth-half-1),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		d.renderPushPanel(contentWidth),
		d.renderRecentPanel(contentWidth),
	)
}

func (d dashboardModel) renderStatsPanel(w int) string {
	st := d.stats
	rows := []string{
		titleStyle.Render("Commits"),
		bigNumberStyle.Render(fmt.Sprintf("%d", st.TotalCommits)),
		fmt.Sprintf("%s %d  %s %d",
			successStyle.Render("✓"), st.SuccessfulCommits,
			errorStyle.Render("✗"), st.FailedCommits),
		mutedStyle.Render(fmt.Sprintf("%s success, %s pushed", formatRate(st), formatBytes(st.TotalFileSizeBytes))),
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderStreakPanel(w int) string {
	st := d.stats
	rows := []string{
		titleStyle.Render("Streak"),
		streakStyle.Render(pluralize(st.CurrentStreak, "day", "days")),
		mutedStyle.Render("longest " + pluralize(st.LongestStreak, "day", "days")),
	}
	if len(d.recent) > 0 {
		rows = append(rows, mutedStyle.Render("last push "+humanize.Time(d.recent[0].Timestamp)))
	} else {
		rows = append(rows, mutedStyle.Render("no pushes yet"))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderPushPanel(w int) string {
	target := d.cfg.RepoSlug()
	if target == "" {
		target = "(no repository configured)"
	}
	header := fmt.Sprintf("%s  %s", titleStyle.Render("Target"), highlightStyle.Render(target))
	if d.cfg.RepoSlug() != "" {
		header += mutedStyle.Render(fmt.Sprintf(" %s@%s", d.cfg.Path, d.cfg.Branch))
	}

	var state string
	switch {
	case d.pushing:
		state = d.spinner.View() + " " + warningStyle.Render("Pushing...")
	case d.last != nil && d.last.Err != nil:
		state = errorStyle.Render("✗ Last push failed: " + d.last.Err.Error())
	case d.last != nil:
		verb := "updated"
		if d.last.Result != nil && d.last.Result.Created {
			verb = "created"
		}
		state = successStyle.Render(fmt.Sprintf("✓ Last push %s %s", verb, d.cfg.Path))
	default:
		state = mutedStyle.Render("Press p to push today's log")
	}

	style := panelStyle
	if d.pushing {
		style = activePanelStyle
	}
	return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, state))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Pushes")
	if len(d.recent) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No commits yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	msgWidth := w - 40
	if msgWidth < 10 {
		msgWidth = 10
	}
	for _, e := range d.recent {
		row := fmt.Sprintf("  %s %s  %-*s %s",
			statusMark(e.Success),
			formatTimestamp(e.Timestamp),
			msgWidth, truncate(e.Message, msgWidth),
			mutedStyle.Render(formatBytes(e.FileSizeBytes)),
		)
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) isPushing() bool { return d.pushing }
