// Package config loads the GitHub target and credential from the settings
// table, letting environment variables override stored values.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sadopc/dailycommit/internal/github"
	"github.com/sadopc/dailycommit/internal/store"
)

// Setting keys in the settings table.
const (
	KeyToken         = "github_token"
	KeyOwner         = "github_owner"
	KeyRepo          = "github_repo"
	KeyBranch        = "github_branch"
	KeyPath          = "github_path"
	KeyCommitMessage = "commit_message"
	KeyAPIBaseURL    = "api_base_url"
)

// Defaults used when a setting is missing from the store.
const (
	DefaultBranch        = "main"
	DefaultPath          = "log.txt"
	DefaultCommitMessage = "Update log from dailycommit"
)

type Config struct {
	Token         string
	Owner         string
	Repo          string
	Branch        string
	Path          string
	CommitMessage string
	APIBaseURL    string
}

// envKeys maps setting keys to the environment variables that override them.
var envKeys = map[string]string{
	KeyToken:      "GITHUB_TOKEN",
	KeyOwner:      "DAILYCOMMIT_OWNER",
	KeyRepo:       "DAILYCOMMIT_REPO",
	KeyBranch:     "DAILYCOMMIT_BRANCH",
	KeyPath:       "DAILYCOMMIT_PATH",
	KeyAPIBaseURL: "DAILYCOMMIT_API_URL",
}

// Stored reads the settings table without environment overrides.
func Stored(s *store.Store) Config {
	values := make(map[string]string)
	if all, err := s.GetAllSettings(); err == nil {
		for _, st := range all {
			values[st.Key] = st.Value
		}
	}
	get := func(key, fallback string) string {
		if v := values[key]; v != "" {
			return v
		}
		return fallback
	}

	return Config{
		Token:         get(KeyToken, ""),
		Owner:         get(KeyOwner, ""),
		Repo:          get(KeyRepo, ""),
		Branch:        get(KeyBranch, DefaultBranch),
		Path:          get(KeyPath, DefaultPath),
		CommitMessage: get(KeyCommitMessage, DefaultCommitMessage),
		APIBaseURL:    get(KeyAPIBaseURL, github.DefaultBaseURL),
	}
}

// Load returns the stored config with environment overrides applied.
func Load(s *store.Store) Config {
	cfg := Stored(s)
	cfg.Token = getEnv(envKeys[KeyToken], cfg.Token)
	cfg.Owner = getEnv(envKeys[KeyOwner], cfg.Owner)
	cfg.Repo = getEnv(envKeys[KeyRepo], cfg.Repo)
	cfg.Branch = getEnv(envKeys[KeyBranch], cfg.Branch)
	cfg.Path = getEnv(envKeys[KeyPath], cfg.Path)
	cfg.APIBaseURL = getEnv(envKeys[KeyAPIBaseURL], cfg.APIBaseURL)
	return cfg
}

// Overridden reports whether the environment currently supplies key.
func Overridden(key string) bool {
	name, ok := envKeys[key]
	return ok && os.Getenv(name) != ""
}

// Save writes cfg back to the settings table. Keys overridden from the
// environment are left as stored, so env-only secrets never reach disk.
func Save(s *store.Store, cfg Config) error {
	all := []store.Setting{
		{Key: KeyToken, Value: strings.TrimSpace(cfg.Token)},
		{Key: KeyOwner, Value: strings.TrimSpace(cfg.Owner)},
		{Key: KeyRepo, Value: strings.TrimSpace(cfg.Repo)},
		{Key: KeyBranch, Value: strings.TrimSpace(cfg.Branch)},
		{Key: KeyPath, Value: strings.TrimSpace(cfg.Path)},
		{Key: KeyCommitMessage, Value: cfg.CommitMessage},
		{Key: KeyAPIBaseURL, Value: strings.TrimSpace(cfg.APIBaseURL)},
	}
	var settings []store.Setting
	for _, st := range all {
		if Overridden(st.Key) {
			continue
		}
		settings = append(settings, st)
	}

	if err := s.SetSettings(settings); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Validate reports whether a push can be attempted.
func (c Config) Validate() error {
	if err := c.Remote().Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("%w: file path is empty", github.ErrInvalidConfig)
	}
	return nil
}

// Remote returns the part of the config the upsert client needs.
func (c Config) Remote() github.Config {
	return github.Config{
		Token:   c.Token,
		Owner:   c.Owner,
		Repo:    c.Repo,
		Branch:  c.Branch,
		BaseURL: c.APIBaseURL,
	}
}

// RepoSlug returns "owner/repo", or "" when either part is missing.
func (c Config) RepoSlug() string {
	if c.Owner == "" || c.Repo == "" {
		return ""
	}
	return c.Owner + "/" + c.Repo
}

// MaskedToken shows only the last four characters of the token.
func (c Config) MaskedToken() string {
	if c.Token == "" {
		return "(not set)"
	}
	if len(c.Token) <= 4 {
		return strings.Repeat("*", len(c.Token))
	}
	return strings.Repeat("*", 8) + c.Token[len(c.Token)-4:]
}

// getEnv returns environment variable or default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
