package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dailycommit/internal/activity"
)

type historyModel struct {
	log    *activity.Log
	width  int
	height int

	entries []activity.Entry
	cursor  int

	formActive bool
	form       *huh.Form
	confirm    *bool
}

func newHistoryModel(log *activity.Log) historyModel {
	confirm := false
	return historyModel{
		log:     log,
		confirm: &confirm,
	}
}

func (h *historyModel) setSize(w, hh int) {
	h.width = w
	h.height = hh
}

type historyDataMsg struct {
	entries []activity.Entry
}

func (h historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return historyDataMsg{entries: h.log.Entries()}
	}
}

func (h historyModel) clearHistory() tea.Cmd {
	return func() tea.Msg {
		h.log.Clear()
		return historyClearedMsg{}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	if msg, ok := msg.(historyDataMsg); ok {
		h.entries = msg.entries
		if h.cursor >= len(h.entries) {
			h.cursor = max(len(h.entries)-1, 0)
		}
		return h, nil
	}

	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, keys.Down):
			if h.cursor < len(h.entries)-1 {
				h.cursor++
			}
		case key.Matches(msg, keys.Clear):
			if len(h.entries) == 0 {
				return h, func() tea.Msg { return statusMsg{text: "History is already empty"} }
			}
			return h.showConfirm()
		}
	}
	return h, nil
}

func (h historyModel) showConfirm() (historyModel, tea.Cmd) {
	*h.confirm = false
	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Clear all %s?", pluralize(len(h.entries), "entry", "entries"))).
				Description("Streaks and statistics reset to zero.").
				Affirmative("Clear").
				Negative("Cancel").
				Value(h.confirm),
		),
	)
	h.formActive = true
	return h, h.form.Init()
}

func (h historyModel) updateForm(msg tea.Msg) (historyModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			h.formActive = false
			h.form = nil
			return h, nil
		}
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}

	if h.form.State == huh.StateCompleted {
		h.formActive = false
		h.form = nil
		if *h.confirm {
			h.cursor = 0
			return h, h.clearHistory()
		}
		return h, nil
	}

	return h, cmd
}

func (h historyModel) view() string {
	w := h.width - 4

	if h.formActive && h.form != nil {
		title := titleStyle.Render("Clear History")
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", h.form.View()),
		)
	}

	title := titleStyle.Render(fmt.Sprintf("History (%d)", len(h.entries)))
	if len(h.entries) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No commits yet"),
		))
	}

	// Leave room for the title, detail pane and panel borders.
	visible := h.height - 12
	if visible < 3 {
		visible = 3
	}
	start := 0
	if h.cursor >= visible {
		start = h.cursor - visible + 1
	}
	end := min(start+visible, len(h.entries))

	msgWidth := w - 44
	if msgWidth < 10 {
		msgWidth = 10
	}

	var rows []string
	rows = append(rows, title, "")
	for i := start; i < end; i++ {
		e := h.entries[i]
		cursor := "  "
		style := normalItemStyle
		if i == h.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		line := fmt.Sprintf("%s %-*s %10s",
			formatTimestamp(e.Timestamp),
			msgWidth, truncate(e.Message, msgWidth),
			formatBytes(e.FileSizeBytes),
		)
		rows = append(rows, cursor+statusMark(e.Success)+" "+style.Render(line))
	}

	rows = append(rows, "", h.renderDetail(h.entries[h.cursor]))
	rows = append(rows, "", mutedStyle.Render("  ↑/↓: navigate  c: clear history"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (h historyModel) renderDetail(e activity.Entry) string {
	status := successStyle.Render("pushed")
	if !e.Success {
		status = errorStyle.Render("failed")
	}
	return strings.Join([]string{
		"  " + highlightStyle.Render(e.Message),
		mutedStyle.Render(fmt.Sprintf("  %s  %s  %s  ",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			formatBytes(e.FileSizeBytes),
			e.ID,
		)) + status,
	}, "\n")
}
