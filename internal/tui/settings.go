package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dailycommit/internal/config"
	"github.com/sadopc/dailycommit/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	cfg        config.Config
	logPath    string
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	token         *string
	owner         *string
	repo          *string
	branch        *string
	path          *string
	commitMessage *string
	apiBaseURL    *string
}

func newSettingsModel(s *store.Store, cfg config.Config, logPath string) settingsModel {
	tok, own, rep, br := "", "", "", ""
	p, cm, api := "", "", ""
	return settingsModel{
		store:         s,
		cfg:           cfg,
		logPath:       logPath,
		token:         &tok,
		owner:         &own,
		repo:          &rep,
		branch:        &br,
		path:          &p,
		commitMessage: &cm,
		apiBaseURL:    &api,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return configSavedMsg{cfg: config.Load(s.store)}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case configSavedMsg:
		s.cfg = msg.cfg
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Edit what is stored; environment overrides are never written back.
	stored := config.Stored(s.store)
	*s.token = stored.Token
	*s.owner = stored.Owner
	*s.repo = stored.Repo
	*s.branch = stored.Branch
	*s.path = stored.Path
	*s.commitMessage = stored.CommitMessage
	*s.apiBaseURL = stored.APIBaseURL

	tokenHint := ""
	if config.Overridden(config.KeyToken) {
		tokenHint = "GITHUB_TOKEN is set and takes precedence; it is not saved"
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Owner").Value(s.owner).Validate(required("owner")),
			huh.NewInput().Title("Repository").Value(s.repo).Validate(required("repository")),
			huh.NewInput().Title("Branch").Value(s.branch).Validate(required("branch")),
			huh.NewInput().Title("File path").Value(s.path).Validate(required("file path")),
		).Title("Repository"),
		huh.NewGroup(
			huh.NewInput().Title("Personal access token").
				Description(tokenHint).
				EchoMode(huh.EchoModePassword).
				Value(s.token),
			huh.NewInput().Title("Default commit message").Value(s.commitMessage),
			huh.NewInput().Title("API base URL").Value(s.apiBaseURL).Validate(required("API base URL")),
		).Title("GitHub"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func required(name string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.save()
	}

	return s, cmd
}

func (s settingsModel) save() tea.Cmd {
	cfg := config.Config{
		Token:         *s.token,
		Owner:         *s.owner,
		Repo:          *s.repo,
		Branch:        *s.branch,
		Path:          *s.path,
		CommitMessage: *s.commitMessage,
		APIBaseURL:    *s.apiBaseURL,
	}
	return func() tea.Msg {
		if err := config.Save(s.store, cfg); err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return configSavedMsg{cfg: config.Load(s.store)}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	fields := []struct {
		label, value string
		env          bool
	}{
		{"Repository", s.cfg.RepoSlug(), config.Overridden(config.KeyOwner) || config.Overridden(config.KeyRepo)},
		{"Branch", s.cfg.Branch, config.Overridden(config.KeyBranch)},
		{"File path", s.cfg.Path, config.Overridden(config.KeyPath)},
		{"Token", s.cfg.MaskedToken(), config.Overridden(config.KeyToken)},
		{"Commit message", s.cfg.CommitMessage, false},
		{"API base URL", s.cfg.APIBaseURL, config.Overridden(config.KeyAPIBaseURL)},
		{"Activity log", s.logPath, false},
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, f := range fields {
		label := lipgloss.NewStyle().Width(24).Render(f.label)
		value := f.value
		if value == "" {
			value = mutedStyle.Render("(not set)")
		} else {
			value = highlightStyle.Render(value)
		}
		if f.env {
			value += mutedStyle.Render(" (env)")
		}
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	if err := s.cfg.Validate(); err != nil {
		rows = append(rows, warningStyle.Render("  "+err.Error()))
	} else {
		rows = append(rows, successStyle.Render("  Ready to push"))
	}
	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
