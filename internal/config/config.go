package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/cptspacemanspiff/watt-monitor/internal/records"
)

const (
	minIntervalSeconds     = 1
	maxIntervalSeconds     = 3600
	minGapThresholdSeconds = 60
	maxGapThresholdSeconds = 24 * 3600
	minDrainRatePerHour    = 0.1
	maxDrainRatePerHour    = 100
)

type Config struct {
	Storage    StorageConfig    `toml:"storage"`
	Collection CollectionConfig `toml:"collection"`
	Sleep      SleepConfig      `toml:"sleep"`
}

type StorageConfig struct {
	DataDir     string `toml:"data_dir"`
	RollingPath string `toml:"rolling_path"`
	PIDPath     string `toml:"pid_path"`
}

type CollectionConfig struct {
	IntervalSeconds int `toml:"interval_seconds"`
}

type SleepConfig struct {
	GapThresholdSeconds int     `toml:"gap_threshold_seconds"`
	MaxDrainRatePerHour float64 `toml:"max_drain_rate_per_hour"`
}

func DefaultConfig() *Config {
	paths := records.DefaultPaths()
	return &Config{
		Storage: StorageConfig{
			DataDir:     paths.DataDir,
			RollingPath: paths.RollingPath,
			PIDPath:     defaultPIDPath(),
		},
		Collection: CollectionConfig{
			IntervalSeconds: 4,
		},
		Sleep: SleepConfig{
			GapThresholdSeconds: 600,
			MaxDrainRatePerHour: 5.0,
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "watt-monitor", "config.toml")
	}
	return "/etc/watt-monitor/config.toml"
}

func defaultPIDPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "watt-monitor.pid")
	}
	return filepath.Join(os.TempDir(), "watt-monitor.pid")
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return NormalizeAndValidate(cfg)
}

func NormalizeAndValidate(cfg *Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	sanitized := *cfg

	var err error
	sanitized.Storage.DataDir, err = sanitizePath("storage.data_dir", sanitized.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	sanitized.Storage.RollingPath, err = sanitizePath("storage.rolling_path", sanitized.Storage.RollingPath)
	if err != nil {
		return nil, err
	}
	sanitized.Storage.PIDPath, err = sanitizePath("storage.pid_path", sanitized.Storage.PIDPath)
	if err != nil {
		return nil, err
	}

	if err := validateRange("collection.interval_seconds", sanitized.Collection.IntervalSeconds, minIntervalSeconds, maxIntervalSeconds); err != nil {
		return nil, err
	}
	if err := validateRange("sleep.gap_threshold_seconds", sanitized.Sleep.GapThresholdSeconds, minGapThresholdSeconds, maxGapThresholdSeconds); err != nil {
		return nil, err
	}
	rate := sanitized.Sleep.MaxDrainRatePerHour
	if rate < minDrainRatePerHour || rate > maxDrainRatePerHour {
		return nil, fmt.Errorf("sleep.max_drain_rate_per_hour must be between %v and %v, got %v", minDrainRatePerHour, maxDrainRatePerHour, rate)
	}

	return &sanitized, nil
}

// Paths returns the file layout the config describes.
func (c *Config) Paths() records.Paths {
	return records.Paths{
		DataDir:     c.Storage.DataDir,
		RollingPath: c.Storage.RollingPath,
	}
}

func sanitizePath(name, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%s must not be empty", name)
	}
	cleaned := filepath.Clean(trimmed)
	if !filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%s must be an absolute path, got %q", name, value)
	}
	return cleaned, nil
}

func validateRange(name string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, min, max, value)
	}

	return nil
}
