package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/dailycommit/internal/activity"
)

type jsonExport struct {
	ExportedAt string         `json:"exported_at"`
	Count      int            `json:"count"`
	Stats      activity.Stats `json:"stats"`
	Entries    []jsonEntry    `json:"entries"`
}

type jsonEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	SizeBytes int64  `json:"size_bytes"`
	Status    string `json:"status"`
}

func ToJSON(entries []activity.Entry, stats activity.Stats, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
		Stats:      stats,
	}

	for _, e := range entries {
		export.Entries = append(export.Entries, jsonEntry{
			ID:        e.ID,
			Timestamp: e.Timestamp.Local().Format(time.RFC3339),
			Message:   e.Message,
			SizeBytes: e.FileSizeBytes,
			Status:    status(e.Success),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
