package chart

import (
	"github.com/cptspacemanspiff/watt-monitor/internal/records"
)

// ViewMode selects the displayed time window. Values are totally ordered
// from narrowest to widest.
type ViewMode int

const (
	Recent30m ViewMode = iota
	Recent1h
	Recent4h
	Recent12h
	Full
)

// Toggle cycles to the next mode, wrapping from Full back to Recent30m.
func (m ViewMode) Toggle() ViewMode {
	if m == Full {
		return Recent30m
	}
	return m + 1
}

// Expand moves to the next wider mode. The second return is false at Full.
func (m ViewMode) Expand() (ViewMode, bool) {
	if m == Full {
		return Full, false
	}
	return m + 1, true
}

// Label returns the short display name for the mode.
func (m ViewMode) Label() string {
	switch m {
	case Recent30m:
		return "30m"
	case Recent1h:
		return "1h"
	case Recent4h:
		return "4h"
	case Recent12h:
		return "12h"
	default:
		return "Full"
	}
}

// WindowSecs returns the nominal trailing window length. The second return
// is false for Full, which is unwindowed.
func (m ViewMode) WindowSecs() (int64, bool) {
	switch m {
	case Recent30m:
		return 30 * 60, true
	case Recent1h:
		return 60 * 60, true
	case Recent4h:
		return 4 * 60 * 60, true
	case Recent12h:
		return 12 * 60 * 60, true
	default:
		return 0, false
	}
}

// MinDataSecs returns the minimum data span for the mode's window to be
// considered usable.
func (m ViewMode) MinDataSecs() int64 {
	switch m {
	case Recent30m:
		return 5 * 60
	case Recent1h:
		return 10 * 60
	case Recent4h:
		return 30 * 60
	case Recent12h:
		return 60 * 60
	default:
		return 0
	}
}

// maxFullPoints bounds render cost in Full mode; larger sets are thinned.
const maxFullPoints = 500

// Selector maps a requested view mode to an effective one guaranteed to
// contain enough data, and filters samples to a mode's window.
type Selector struct {
	// MaxFullPoints overrides the Full-mode down-sampling bound when > 0.
	MaxFullPoints int
}

// Filter returns the samples visible in the given mode: the trailing window
// measured back from the latest sample, or the whole set (down-sampled) for
// Full.
func (s Selector) Filter(samples []records.Sample, mode ViewMode) []records.Sample {
	if len(samples) == 0 {
		return nil
	}

	windowSecs, ok := mode.WindowSecs()
	if !ok {
		return s.downsample(samples)
	}

	cutoff := samples[len(samples)-1].Time.Unix() - windowSecs
	// Samples are time-ordered, so find the first in-window index.
	i := len(samples)
	for i > 0 && samples[i-1].Time.Unix() >= cutoff {
		i--
	}
	return samples[i:]
}

func (s Selector) downsample(samples []records.Sample) []records.Sample {
	maxPoints := s.MaxFullPoints
	if maxPoints <= 0 {
		maxPoints = maxFullPoints
	}
	if len(samples) <= maxPoints {
		return samples
	}

	step := len(samples) / maxPoints
	var out []records.Sample
	for i := 0; i < len(samples); i += step {
		out = append(out, samples[i])
	}
	// Always keep the most recent point so the chart stays current.
	last := samples[len(samples)-1]
	if out[len(out)-1].Time != last.Time {
		out = append(out, last)
	}
	return out
}

// Effective widens the requested mode until its window holds at least two
// points spanning the mode's minimum duration, stopping at Full. The result
// is never narrower than requested, and equals it exactly when the requested
// window is already sufficient.
func (s Selector) Effective(samples []records.Sample, requested ViewMode) ViewMode {
	if len(samples) == 0 {
		return requested
	}

	mode := requested
	for {
		filtered := s.Filter(samples, mode)
		if sufficient(filtered, mode) {
			return mode
		}
		wider, ok := mode.Expand()
		if !ok {
			return mode
		}
		mode = wider
	}
}

func sufficient(filtered []records.Sample, mode ViewMode) bool {
	if len(filtered) < 2 {
		return false
	}
	span := filtered[len(filtered)-1].Time.Unix() - filtered[0].Time.Unix()
	return span >= mode.MinDataSecs()
}
