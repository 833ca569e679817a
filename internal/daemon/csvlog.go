package daemon

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cptspacemanspiff/watt-monitor/internal/records"
)

// AppendSample appends one row to the rolling log, creating it with the
// header first if absent.
func AppendSample(path string, s records.Sample) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(records.Header+"\n"), 0o644); err != nil {
			return fmt.Errorf("create log: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%s,%s,%.0f,%.2f\n",
		s.Time.Format(records.TimeLayout), s.Status, s.Capacity, s.Power)
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// Rotate moves the given date's rows from the rolling file into that date's
// archive (created with a header when new) and truncates the rolling file
// back to header-only. A missing or header-only rolling file is a no-op.
func Rotate(paths records.Paths, date time.Time) error {
	content, err := os.ReadFile(paths.RollingPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read rolling log: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) <= 1 {
		return nil
	}

	if err := os.MkdirAll(paths.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	archivePath := paths.ArchivePath(date)
	if _, err := os.Stat(archivePath); os.IsNotExist(err) {
		if err := os.WriteFile(archivePath, []byte(records.Header+"\n"), 0o644); err != nil {
			return fmt.Errorf("create archive: %w", err)
		}
	}

	archive, err := os.OpenFile(archivePath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archive.Close()

	dateStr := date.Format(records.DateLayout)
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, dateStr) {
			continue
		}
		if _, err := fmt.Fprintln(archive, line); err != nil {
			return fmt.Errorf("append to archive: %w", err)
		}
	}

	if err := os.WriteFile(paths.RollingPath, []byte(records.Header+"\n"), 0o644); err != nil {
		return fmt.Errorf("truncate rolling log: %w", err)
	}
	return nil
}
