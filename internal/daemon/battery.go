package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cptspacemanspiff/watt-monitor/internal/records"
)

// sysfsRoot is swapped out in tests.
var sysfsRoot = "/sys"

// CollectSample reads the battery state from /sys/class/power_supply/BAT*.
func CollectSample() (records.Sample, error) {
	matches, err := filepath.Glob(filepath.Join(sysfsRoot, "class/power_supply/BAT*"))
	if err != nil {
		return records.Sample{}, fmt.Errorf("glob battery: %w", err)
	}
	if len(matches) == 0 {
		return records.Sample{}, fmt.Errorf("no battery found")
	}

	data, err := os.ReadFile(filepath.Join(matches[0], "uevent"))
	if err != nil {
		return records.Sample{}, fmt.Errorf("read uevent: %w", err)
	}

	props := parseUevent(string(data))
	status := props["POWER_SUPPLY_STATUS"]
	capacity, _ := strconv.ParseFloat(props["POWER_SUPPLY_CAPACITY"], 64)
	powerUW, _ := strconv.ParseInt(props["POWER_SUPPLY_POWER_NOW"], 10, 64)
	voltageUV, _ := strconv.ParseInt(props["POWER_SUPPLY_VOLTAGE_NOW"], 10, 64)
	currentUA, _ := strconv.ParseInt(props["POWER_SUPPLY_CURRENT_NOW"], 10, 64)

	// If power_now isn't reported, compute from voltage * current.
	if powerUW == 0 && voltageUV > 0 && currentUA > 0 {
		powerUW = (voltageUV / 1000) * (currentUA / 1000)
	}

	// Some firmware reports "Discharging" at full capacity while on AC power.
	// Detect this and correct to "Full".
	if status == records.StatusDischarging && capacity >= 100 && isACOnline() {
		status = records.StatusFull
	}

	return records.Sample{
		Time:     time.Now(),
		Status:   status,
		Capacity: capacity,
		Power:    float64(powerUW) / 1e6,
	}, nil
}

// isACOnline checks if any AC adapter is online.
func isACOnline() bool {
	matches, err := filepath.Glob(filepath.Join(sysfsRoot, "class/power_supply/AC*/online"))
	if err != nil {
		return false
	}
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err == nil && strings.TrimSpace(string(data)) == "1" {
			return true
		}
	}
	return false
}

func parseUevent(data string) map[string]string {
	props := make(map[string]string)
	for _, line := range strings.Split(data, "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			props[k] = v
		}
	}
	return props
}
