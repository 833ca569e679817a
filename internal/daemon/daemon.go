package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cptspacemanspiff/watt-monitor/internal/config"
	"github.com/cptspacemanspiff/watt-monitor/internal/records"
)

// Run executes the collector loop: one battery sample per tick appended to
// the rolling file, archive rotation at midnight crossings, and a final
// in-flight write plus rotation on SIGINT/SIGTERM. Read and write failures
// are logged and the loop continues; only startup failures are fatal.
func Run(cfg *config.Config, logger *slog.Logger) error {
	guard := &Guard{Path: cfg.Storage.PIDPath}
	if err := guard.Acquire(); err != nil {
		return err
	}
	defer guard.Release()

	// Probe once before looping so a machine without a battery fails loudly.
	if _, err := CollectSample(); err != nil {
		return fmt.Errorf("battery probe: %w", err)
	}

	batteryLog := logger.With("topic", "battery")
	rotateLog := logger.With("topic", "rotate")
	sleepLog := logger.With("topic", "sleep")

	var wakeCh <-chan struct{}
	if mon, err := NewWakeMonitor(sleepLog); err != nil {
		logger.Warn("wake monitor unavailable", "err", err)
	} else {
		wakeCh = mon.Wake()
		defer mon.Close()
	}

	paths := cfg.Paths()
	interval := time.Duration(cfg.Collection.IntervalSeconds) * time.Second

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	currentDate := time.Now()
	logger.Info("collector started",
		"pid", os.Getpid(),
		"interval", interval,
		"log", paths.RollingPath)

	tick := func() {
		now := time.Now()
		if !records.SameDate(now, currentDate) {
			if err := Rotate(paths, currentDate); err != nil {
				rotateLog.Error("rotate failed", "err", err)
			} else {
				rotateLog.Info("archived", "date", currentDate.Format(records.DateLayout))
			}
			currentDate = now
		}

		sample, err := CollectSample()
		if err != nil {
			batteryLog.Error("collect failed", "err", err)
			return
		}
		batteryLog.Info("sample",
			"status", sample.Status,
			"capacity_pct", sample.Capacity,
			"power_w", sample.Power)
		if err := AppendSample(paths.RollingPath, sample); err != nil {
			batteryLog.Error("write failed", "err", err)
		}
	}

	tick()
	for {
		select {
		case <-ticker.C:
			tick()
		case <-wakeCh:
			sleepLog.Info("wake signal received, sampling immediately")
			tick()
		case <-sigCh:
			logger.Info("shutting down")
			if err := Rotate(paths, currentDate); err != nil {
				rotateLog.Error("final rotate failed", "err", err)
			}
			return nil
		}
	}
}
