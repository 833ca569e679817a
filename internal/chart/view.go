package chart

import (
	"github.com/cptspacemanspiff/watt-monitor/internal/records"
)

// View composes the store snapshot, sleep detection, window selection and
// snapshot assembly into the surface the renderer consumes. It holds no
// derived state: every accessor recomputes from the store's current samples,
// so a refresh between render ticks is always picked up.
type View struct {
	Store     *records.Store
	Requested ViewMode
	Detector  Detector
	Selector  Selector
}

// NewView creates a view over the store starting at the narrowest window.
func NewView(store *records.Store) *View {
	return &View{Store: store, Requested: Recent30m}
}

// ToggleMode cycles the requested view mode.
func (v *View) ToggleMode() {
	v.Requested = v.Requested.Toggle()
}

// Effective returns the actually-rendered mode after adaptive widening.
func (v *View) Effective() ViewMode {
	return v.Selector.Effective(v.Store.Samples(), v.Requested)
}

// ModeLabel shows the requested mode, or "requested→effective" when the
// window was widened.
func (v *View) ModeLabel() string {
	effective := v.Effective()
	if effective == v.Requested {
		return v.Requested.Label()
	}
	return v.Requested.Label() + "→" + effective.Label()
}

// Filtered returns the samples in the effective window.
func (v *View) Filtered() []records.Sample {
	return v.Selector.Filter(v.Store.Samples(), v.Effective())
}

// SleepPeriods recomputes sleep periods over the full sample snapshot.
func (v *View) SleepPeriods() []SleepPeriod {
	return v.Detector.Detect(v.Store.Samples())
}

// LastSleepPeriod returns the most recent sleep period, if any.
func (v *View) LastSleepPeriod() (SleepPeriod, bool) {
	return v.Detector.Last(v.Store.Samples())
}

// Snapshot assembles the renderable chart for the current tick.
func (v *View) Snapshot() Snapshot {
	return Assemble(v.Filtered(), v.SleepPeriods())
}

// LatestStatus returns the newest sample's status text.
func (v *View) LatestStatus() (string, bool) {
	samples := v.Store.Samples()
	if len(samples) == 0 {
		return "", false
	}
	return samples[len(samples)-1].Status, true
}

// LatestCapacity returns the newest sample's capacity percentage.
func (v *View) LatestCapacity() (float64, bool) {
	samples := v.Store.Samples()
	if len(samples) == 0 {
		return 0, false
	}
	return samples[len(samples)-1].Capacity, true
}

// LatestPower returns the newest sample's power draw in watts.
func (v *View) LatestPower() (float64, bool) {
	samples := v.Store.Samples()
	if len(samples) == 0 {
		return 0, false
	}
	return samples[len(samples)-1].Power, true
}

// PowerRange returns the filtered power series' min and max with 10%
// padding, floored at zero. An empty window yields a fixed 0-20W range.
func (v *View) PowerRange() (float64, float64) {
	filtered := v.Filtered()
	if len(filtered) == 0 {
		return 0, 20
	}

	min, max := filtered[0].Power, filtered[0].Power
	for _, s := range filtered[1:] {
		if s.Power < min {
			min = s.Power
		}
		if s.Power > max {
			max = s.Power
		}
	}

	padding := (max - min) * 0.1
	lo := min - padding
	if lo < 0 {
		lo = 0
	}
	return lo, max + padding
}
