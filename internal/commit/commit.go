// Package commit runs one push: render the activity summary, upsert it to
// GitHub and record the attempt in the activity log.
package commit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/dailycommit/internal/activity"
	"github.com/sadopc/dailycommit/internal/config"
	"github.com/sadopc/dailycommit/internal/github"
)

// Committer ties the activity log to the upsert client. Only one Run may be
// in flight at a time; the UI enforces this.
type Committer struct {
	log    *activity.Log
	client *github.Client
	now    func() time.Time
}

func New(log *activity.Log, client *github.Client) *Committer {
	return &Committer{log: log, client: client, now: time.Now}
}

// Outcome is the result of one Run. Entry is always recorded, Err is nil
// only when the remote accepted the write.
type Outcome struct {
	Entry  activity.Entry
	Result *github.UpsertResult
	Err    error
}

// Content renders the file pushed for message at instant at: a timestamped
// headline followed by the current summary.
func (c *Committer) Content(message string, at time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n\n", at.Format(time.RFC3339), message)
	b.WriteString(c.log.Summary(at))
	return []byte(b.String())
}

// Run pushes the current summary and records the attempt, successful or
// not. An empty message falls back to the configured default.
func (c *Committer) Run(ctx context.Context, cfg config.Config, message string) Outcome {
	message = strings.TrimSpace(message)
	if message == "" {
		message = cfg.CommitMessage
	}
	if message == "" {
		message = config.DefaultCommitMessage
	}

	at := c.now()
	content := c.Content(message, at)

	var out Outcome
	if err := cfg.Validate(); err != nil {
		out.Err = err
	} else {
		res := <-c.client.UpsertAsync(ctx, cfg.Remote(), cfg.Path, content, message)
		out.Result, out.Err = res.Value, res.Err
	}

	out.Entry = activity.NewEntry(message, int64(len(content)), out.Err == nil, at)
	c.log.Add(out.Entry)
	return out
}
