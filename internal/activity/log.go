// Package activity owns the local history of commit attempts and the
// statistics derived from it.
package activity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const fileName = "activity.json"

// Log is the persisted, most-recent-first list of entries. It is the only
// writer of the activity file. Persistence is best effort: read and write
// failures are logged and the in-memory list stays authoritative.
//
// Methods are safe to call from UI commands running on other goroutines, but
// the log assumes a single session owns the file.
type Log struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	location *time.Location

	entries []Entry
	stats   Stats
}

// Open creates a Log backed by path and loads whatever it holds.
func Open(path string, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &Log{
		path:     path,
		logger:   logger,
		location: time.Local,
	}
	l.Load()
	return l
}

// SetLocation changes the zone used for calendar-day streak math.
func (l *Log) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.location = loc
	l.recalculate()
}

// Location returns the zone used for calendar days.
func (l *Log) Location() *time.Location {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.location
}

// Path returns the backing file path.
func (l *Log) Path() string { return l.path }

// Load replaces the in-memory list with the persisted one. A missing or
// unreadable file yields an empty history.
func (l *Log) Load() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	defer l.recalculate()

	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		l.logger.Warn("read activity log", "path", l.path, "err", err)
		return
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		l.logger.Warn("activity log is corrupt, starting empty", "path", l.path, "err", err)
		return
	}
	for i := range entries {
		if entries[i].FileSizeBytes < 0 {
			l.logger.Warn("negative size in activity log, clamping", "id", entries[i].ID, "size", entries[i].FileSizeBytes)
			entries[i].FileSizeBytes = 0
		}
	}
	l.entries = entries
	l.logger.Info("activity log loaded", "path", l.path, "entries", len(entries))
}

// Add inserts e at the head of the list, persists and recalculates.
func (l *Log) Add(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]Entry{e}, l.entries...)
	l.save()
	l.recalculate()
}

// Clear drops every entry, persists and recalculates.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	l.save()
	l.recalculate()
	l.logger.Info("activity log cleared", "path", l.path)
}

// Entries returns a copy of the list, most recent first.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Stats returns the statistics for the current list.
func (l *Log) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

func (l *Log) recalculate() {
	l.stats = CalculateStats(l.entries, l.location)
}

func (l *Log) save() {
	if err := l.write(); err != nil {
		l.logger.Error("save activity log", "path", l.path, "err", err)
	}
}

func (l *Log) write() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), fileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("replace activity log: %w", err)
	}
	return nil
}

// DefaultPath returns ~/.config/dailycommit/activity.json
func DefaultPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "dailycommit", fileName), nil
}
