package records

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Paths locates the rolling log file and the per-date archive directory.
type Paths struct {
	DataDir     string // directory holding YYYY-MM-DD.csv archives
	RollingPath string // current-day log, appended to by the collector
}

// DefaultPaths returns the standard locations: archives under
// $XDG_DATA_HOME/watt-monitor and the rolling file in /tmp.
func DefaultPaths() Paths {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "/tmp"
		}
		base = filepath.Join(home, ".local", "share")
	}
	return Paths{
		DataDir:     filepath.Join(base, "watt-monitor"),
		RollingPath: filepath.Join(os.TempDir(), "battery_watt_history.csv"),
	}
}

// ArchivePath returns the archive file for the given date.
func (p Paths) ArchivePath(date time.Time) string {
	return filepath.Join(p.DataDir, date.Format(DateLayout)+".csv")
}

// PathForDate returns the file holding the given date's rows: the rolling
// file for today, the archive otherwise.
func (p Paths) PathForDate(date, today time.Time) string {
	if SameDate(date, today) {
		return p.RollingPath
	}
	return p.ArchivePath(date)
}

// ListAvailableDates returns every date with data, sorted descending.
// Today appears at most once even when both the rolling file and an archive
// for today exist.
func (p Paths) ListAvailableDates(today time.Time) []time.Time {
	var dates []time.Time

	if _, err := os.Stat(p.RollingPath); err == nil {
		dates = append(dates, midnight(today))
	}

	entries, err := os.ReadDir(p.DataDir)
	if err != nil {
		entries = nil
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".csv") {
			continue
		}
		stem := strings.TrimSuffix(name, ".csv")
		d, err := time.ParseInLocation(DateLayout, stem, time.Local)
		if err != nil {
			continue
		}
		if SameDate(d, today) {
			continue
		}
		dates = append(dates, d)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}

// ParseDateArg resolves a user-supplied date selector: "today", "yesterday",
// or an explicit YYYY-MM-DD.
func ParseDateArg(arg string, today time.Time) (time.Time, bool) {
	switch strings.ToLower(arg) {
	case "today":
		return midnight(today), true
	case "yesterday":
		return midnight(today).AddDate(0, 0, -1), true
	}
	d, err := time.ParseInLocation(DateLayout, arg, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// SameDate reports whether two instants fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
