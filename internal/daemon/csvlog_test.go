package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cptspacemanspiff/watt-monitor/internal/records"
)

func testPaths(t *testing.T) records.Paths {
	t.Helper()

	dir := t.TempDir()
	return records.Paths{
		DataDir:     dir,
		RollingPath: filepath.Join(dir, "rolling.csv"),
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestAppendSample_CreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rolling.csv")
	s := records.Sample{
		Time:     time.Date(2024, 3, 1, 8, 15, 0, 0, time.Local),
		Status:   records.StatusDischarging,
		Capacity: 87,
		Power:    5.678,
	}

	if err := AppendSample(path, s); err != nil {
		t.Fatalf("AppendSample() error = %v", err)
	}

	want := records.Header + "\n2024-03-01 08:15:00,Discharging,87,5.68\n"
	if got := readLog(t, path); got != want {
		t.Fatalf("log contents = %q, want %q", got, want)
	}
}

func TestAppendSample_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rolling.csv")
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)

	for i := 0; i < 3; i++ {
		s := records.Sample{
			Time:     base.Add(time.Duration(i) * time.Minute),
			Status:   records.StatusCharging,
			Capacity: float64(50 + i),
			Power:    10,
		}
		if err := AppendSample(path, s); err != nil {
			t.Fatalf("AppendSample() #%d error = %v", i, err)
		}
	}

	samples, err := records.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples back, want 3", len(samples))
	}
	if samples[2].Capacity != 52 {
		t.Fatalf("last Capacity = %v, want 52", samples[2].Capacity)
	}
}

func TestRotate_MovesRowsIntoArchive(t *testing.T) {
	paths := testPaths(t)
	date := time.Date(2024, 3, 1, 23, 59, 0, 0, time.Local)

	rolling := records.Header + "\n" +
		"2024-03-01 08:00:00,Discharging,90,5.00\n" +
		"2024-03-01 08:05:00,Discharging,89,5.10\n"
	if err := os.WriteFile(paths.RollingPath, []byte(rolling), 0o644); err != nil {
		t.Fatalf("seed rolling log: %v", err)
	}

	if err := Rotate(paths, date); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}

	archived, err := records.ParseFile(paths.ArchivePath(date))
	if err != nil {
		t.Fatalf("ParseFile(archive) error = %v", err)
	}
	if len(archived) != 2 {
		t.Fatalf("archive has %d samples, want 2", len(archived))
	}

	if got := readLog(t, paths.RollingPath); got != records.Header+"\n" {
		t.Fatalf("rolling log after rotate = %q, want header only", got)
	}
}

func TestRotate_LeavesOtherDatesBehindInArchiveOnly(t *testing.T) {
	paths := testPaths(t)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)

	// A row from the next day can land in the rolling file when the
	// collector crosses midnight between sample and rotation check.
	rolling := records.Header + "\n" +
		"2024-03-01 23:59:58,Discharging,40,5.00\n" +
		"2024-03-02 00:00:02,Discharging,40,5.00\n"
	if err := os.WriteFile(paths.RollingPath, []byte(rolling), 0o644); err != nil {
		t.Fatalf("seed rolling log: %v", err)
	}

	if err := Rotate(paths, date); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}

	archived, err := records.ParseFile(paths.ArchivePath(date))
	if err != nil {
		t.Fatalf("ParseFile(archive) error = %v", err)
	}
	if len(archived) != 1 {
		t.Fatalf("archive has %d samples, want only the matching date's row", len(archived))
	}
	if !archived[0].Time.Equal(time.Date(2024, 3, 1, 23, 59, 58, 0, time.Local)) {
		t.Fatalf("archived row time = %v, want the 2024-03-01 row", archived[0].Time)
	}
}

func TestRotate_AppendsToExistingArchive(t *testing.T) {
	paths := testPaths(t)
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)

	existing := records.Header + "\n2024-03-01 07:00:00,Charging,30,12.00\n"
	if err := os.WriteFile(paths.ArchivePath(date), []byte(existing), 0o644); err != nil {
		t.Fatalf("seed archive: %v", err)
	}
	rolling := records.Header + "\n2024-03-01 08:00:00,Discharging,90,5.00\n"
	if err := os.WriteFile(paths.RollingPath, []byte(rolling), 0o644); err != nil {
		t.Fatalf("seed rolling log: %v", err)
	}

	if err := Rotate(paths, date); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}

	archived, err := records.ParseFile(paths.ArchivePath(date))
	if err != nil {
		t.Fatalf("ParseFile(archive) error = %v", err)
	}
	if len(archived) != 2 {
		t.Fatalf("archive has %d samples, want existing row plus rotated row", len(archived))
	}
}

func TestRotate_NoOpOnHeaderOnlyRollingFile(t *testing.T) {
	paths := testPaths(t)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)

	if err := os.WriteFile(paths.RollingPath, []byte(records.Header+"\n"), 0o644); err != nil {
		t.Fatalf("seed rolling log: %v", err)
	}

	if err := Rotate(paths, date); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	if _, err := os.Stat(paths.ArchivePath(date)); !os.IsNotExist(err) {
		t.Fatal("Rotate() created an archive for a header-only rolling file")
	}
}

func TestRotate_NoOpOnMissingRollingFile(t *testing.T) {
	paths := testPaths(t)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)

	if err := Rotate(paths, date); err != nil {
		t.Fatalf("Rotate() with no rolling file error = %v", err)
	}
	if _, err := os.Stat(paths.ArchivePath(date)); !os.IsNotExist(err) {
		t.Fatal("Rotate() created an archive with no rolling file present")
	}
}
