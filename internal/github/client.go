// Package github writes files to a repository through the GitHub Contents
// API using a read-sha-then-write sequence.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com"

const userAgent = "dailycommit"

// Config identifies the target repository and carries the credential. It is
// passed on every call; the client keeps no configuration of its own.
type Config struct {
	Token   string
	Owner   string
	Repo    string
	Branch  string
	BaseURL string
}

// Validate reports missing credentials before any request is made.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return ErrAuthMissing
	}
	if strings.TrimSpace(c.Owner) == "" || strings.TrimSpace(c.Repo) == "" {
		return ErrInvalidConfig
	}
	return nil
}

func (c Config) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

// contentsURL returns {base}/repos/{owner}/{repo}/contents/{path}.
func (c Config) contentsURL(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL(),
		url.PathEscape(c.Owner),
		url.PathEscape(c.Repo),
		strings.Join(segments, "/"),
	)
}

// Client performs upserts. It does not serialize concurrent calls; callers
// must not run two upserts against the same path at once.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient returns a Client. A nil httpClient uses a client without a
// timeout override, so only the transport defaults apply.
func NewClient(httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{httpClient: httpClient, logger: logger}
}

// UpsertResult describes a successful write.
type UpsertResult struct {
	StatusCode int
	// Created is true when no version marker existed before the write.
	Created    bool
	ContentSHA string
	CommitSHA  string
	CommitURL  string
}

type contentMetadata struct {
	SHA string `json:"sha"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha,omitempty"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
	Commit struct {
		SHA     string `json:"sha"`
		HTMLURL string `json:"html_url"`
	} `json:"commit"`
}

type apiError struct {
	Message string `json:"message"`
}

// Upsert creates or updates path with content. It first reads the current
// version marker (sha) and includes it in the write when present. A failed
// read is treated as "file does not exist". No retries are made.
func (c *Client) Upsert(ctx context.Context, cfg Config, path string, content []byte, message string) (*UpsertResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sha := c.currentSHA(ctx, cfg, path)

	body, err := json.Marshal(putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  cfg.Branch,
		SHA:     sha,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal put body: %w", err)
	}

	req, err := c.newRequest(ctx, cfg, http.MethodPut, cfg.contentsURL(path), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("upsert transport failure", "path", path, "err", err)
		return nil, &TransportError{Op: "put contents", Err: err}
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var ae apiError
		_ = json.Unmarshal(respBody, &ae)
		c.logger.Warn("upsert rejected", "path", path, "status", resp.StatusCode, "message", ae.Message)
		return nil, &RejectedError{StatusCode: resp.StatusCode, Message: ae.Message}
	}

	result := &UpsertResult{
		StatusCode: resp.StatusCode,
		Created:    sha == "" || resp.StatusCode == http.StatusCreated,
	}
	var pr putResponse
	if err := json.Unmarshal(respBody, &pr); err == nil {
		result.ContentSHA = pr.Content.SHA
		result.CommitSHA = pr.Commit.SHA
		result.CommitURL = pr.Commit.HTMLURL
	}
	c.logger.Info("upsert complete", "path", path, "status", resp.StatusCode, "created", result.Created, "commit", result.CommitSHA)
	return result, nil
}

// Result is the outcome delivered by UpsertAsync.
type Result struct {
	Value *UpsertResult
	Err   error
}

// UpsertAsync runs Upsert in its own goroutine. The returned channel yields
// exactly one Result and is then closed.
func (c *Client) UpsertAsync(ctx context.Context, cfg Config, path string, content []byte, message string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		v, err := c.Upsert(ctx, cfg, path, content, message)
		ch <- Result{Value: v, Err: err}
	}()
	return ch
}

// currentSHA returns the version marker for path, or "" when the file is
// absent or the lookup fails for any reason.
func (c *Client) currentSHA(ctx context.Context, cfg Config, path string) string {
	u := cfg.contentsURL(path)
	if cfg.Branch != "" {
		u += "?ref=" + url.QueryEscape(cfg.Branch)
	}
	req, err := c.newRequest(ctx, cfg, http.MethodGet, u, nil)
	if err != nil {
		return ""
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("sha lookup failed, treating as new file", "path", path, "err", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Info("no existing file", "path", path, "status", resp.StatusCode)
		return ""
	}

	var meta contentMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		c.logger.Warn("decode sha lookup", "path", path, "err", err)
		return ""
	}
	return meta.SHA
}

func (c *Client) newRequest(ctx context.Context, cfg Config, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Authorization", "token "+cfg.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}
