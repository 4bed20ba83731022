package activity

import (
	"time"

	"github.com/google/uuid"
)

// Entry records one attempt to push the activity file to the remote.
// Entries are never mutated once created.
type Entry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Message       string    `json:"message"`
	FileSizeBytes int64     `json:"fileSizeBytes"`
	Success       bool      `json:"success"`
}

// NewEntry builds an entry with a fresh UUID.
func NewEntry(message string, size int64, success bool, at time.Time) Entry {
	if size < 0 {
		size = 0
	}
	return Entry{
		ID:            uuid.New().String(),
		Timestamp:     at,
		Message:       message,
		FileSizeBytes: size,
		Success:       success,
	}
}
