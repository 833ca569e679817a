package chart

import (
	"time"

	"github.com/cptspacemanspiff/watt-monitor/internal/records"
)

// Sleep classification heuristics. True suspension produces slow, near-linear
// discharge; a steep drop across a long gap means the logger was not running
// rather than the device sleeping.
const (
	SleepGapThreshold        = 10 * time.Minute
	MaxSleepDrainRatePerHour = 5.0 // percent per hour
)

// SleepPeriod is a detected sampling gap classified as device suspension.
// Derived from the live sample snapshot, never persisted.
type SleepPeriod struct {
	Start        int64 // unix seconds of the last sample before the gap
	End          int64 // unix seconds of the first sample after the gap
	DurationSecs int64
	CapacityDiff float64 // positive when the device charged while asleep
}

// Detector scans a sample sequence for sleep gaps. The zero value uses the
// package default thresholds.
type Detector struct {
	GapThreshold        time.Duration
	MaxDrainRatePerHour float64
}

// Detect returns one SleepPeriod per qualifying gap between adjacent samples,
// in chronological order. Periods are non-overlapping by construction.
// Fewer than two samples yields nil.
func (d Detector) Detect(samples []records.Sample) []SleepPeriod {
	gapThreshold := d.GapThreshold
	if gapThreshold == 0 {
		gapThreshold = SleepGapThreshold
	}
	maxRate := d.MaxDrainRatePerHour
	if maxRate == 0 {
		maxRate = MaxSleepDrainRatePerHour
	}

	if len(samples) < 2 {
		return nil
	}

	var periods []SleepPeriod
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]

		gap := curr.Time.Unix() - prev.Time.Unix()
		if gap < int64(gapThreshold.Seconds()) {
			continue
		}

		// A charge gain across the gap gives a negative rate, which
		// trivially passes the ceiling.
		drainRate := (prev.Capacity - curr.Capacity) / (float64(gap) / 3600.0)
		if drainRate > maxRate {
			continue
		}

		periods = append(periods, SleepPeriod{
			Start:        prev.Time.Unix(),
			End:          curr.Time.Unix(),
			DurationSecs: gap,
			CapacityDiff: curr.Capacity - prev.Capacity,
		})
	}
	return periods
}

// Last returns the most recent sleep period, if any.
func (d Detector) Last(samples []records.Sample) (SleepPeriod, bool) {
	periods := d.Detect(samples)
	if len(periods) == 0 {
		return SleepPeriod{}, false
	}
	return periods[len(periods)-1], true
}
