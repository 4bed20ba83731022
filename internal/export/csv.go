package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/dailycommit/internal/activity"
)

func ToCSV(entries []activity.Entry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Timestamp", "Message", "Size (bytes)", "Status"}); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{
			e.ID,
			e.Timestamp.Local().Format(time.RFC3339),
			e.Message,
			strconv.FormatInt(e.FileSizeBytes, 10),
			status(e.Success),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "failed"
}
