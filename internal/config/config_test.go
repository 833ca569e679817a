package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Storage.DataDir == "" || !filepath.IsAbs(cfg.Storage.DataDir) {
		t.Fatalf("DataDir = %q, want absolute path", cfg.Storage.DataDir)
	}
	if !strings.HasSuffix(cfg.Storage.RollingPath, "battery_watt_history.csv") {
		t.Fatalf("RollingPath = %q, want battery_watt_history.csv", cfg.Storage.RollingPath)
	}
	if !strings.HasSuffix(cfg.Storage.PIDPath, "watt-monitor.pid") {
		t.Fatalf("PIDPath = %q, want watt-monitor.pid", cfg.Storage.PIDPath)
	}
	if cfg.Collection.IntervalSeconds != 4 {
		t.Fatalf("IntervalSeconds = %d, want 4", cfg.Collection.IntervalSeconds)
	}
	if cfg.Sleep.GapThresholdSeconds != 600 {
		t.Fatalf("GapThresholdSeconds = %d, want 600", cfg.Sleep.GapThresholdSeconds)
	}
	if cfg.Sleep.MaxDrainRatePerHour != 5.0 {
		t.Fatalf("MaxDrainRatePerHour = %v, want 5.0", cfg.Sleep.MaxDrainRatePerHour)
	}

	if _, err := NormalizeAndValidate(cfg); err != nil {
		t.Fatalf("NormalizeAndValidate(defaults) error = %v", err)
	}
}

func TestLoad_OverridesAndKeepsDefaults(t *testing.T) {
	path := writeTempConfig(t, `
[storage]
data_dir = "/var/lib/watt-monitor"

[collection]
interval_seconds = 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.DataDir != "/var/lib/watt-monitor" {
		t.Fatalf("DataDir = %q, want /var/lib/watt-monitor", cfg.Storage.DataDir)
	}
	if cfg.Collection.IntervalSeconds != 10 {
		t.Fatalf("IntervalSeconds = %d, want 10", cfg.Collection.IntervalSeconds)
	}
	if cfg.Sleep.GapThresholdSeconds != 600 {
		t.Fatalf("GapThresholdSeconds = %d, want default 600", cfg.Sleep.GapThresholdSeconds)
	}
	if cfg.Storage.RollingPath != DefaultConfig().Storage.RollingPath {
		t.Fatalf("RollingPath = %q, want default", cfg.Storage.RollingPath)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err == nil {
		t.Fatal("Load() error = nil, want missing file error")
	}
	if !os.IsNotExist(err) {
		t.Fatalf("Load() error = %v, want not-exist error", err)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeTempConfig(t, "not = [valid")
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want TOML parse error")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		contents   string
		wantErrSub string
	}{
		{
			name: "interval out of range",
			contents: `
[collection]
interval_seconds = 0
`,
			wantErrSub: "collection.interval_seconds must be between",
		},
		{
			name: "gap threshold out of range",
			contents: `
[sleep]
gap_threshold_seconds = 5
`,
			wantErrSub: "sleep.gap_threshold_seconds must be between",
		},
		{
			name: "drain rate out of range",
			contents: `
[sleep]
max_drain_rate_per_hour = 0.0
`,
			wantErrSub: "sleep.max_drain_rate_per_hour must be between",
		},
		{
			name: "relative data dir",
			contents: `
[storage]
data_dir = "relative/path"
`,
			wantErrSub: "storage.data_dir must be an absolute path",
		},
		{
			name: "empty rolling path",
			contents: `
[storage]
rolling_path = " "
`,
			wantErrSub: "storage.rolling_path must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempConfig(t, tt.contents)

			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load() error = nil, want error containing %q", tt.wantErrSub)
			}
			if !strings.Contains(err.Error(), tt.wantErrSub) {
				t.Fatalf("Load() error = %q, want contains %q", err.Error(), tt.wantErrSub)
			}
		})
	}
}
