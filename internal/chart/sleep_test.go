package chart

import (
	"testing"
	"time"

	"github.com/cptspacemanspiff/watt-monitor/internal/records"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)

func sampleAt(offset time.Duration, capacity float64) records.Sample {
	return records.Sample{
		Time:     t0.Add(offset),
		Status:   records.StatusDischarging,
		Capacity: capacity,
		Power:    5,
	}
}

func TestDetect_TwelveHourGapSlowDrainIsSleep(t *testing.T) {
	samples := []records.Sample{
		sampleAt(0, 90),
		sampleAt(12*time.Hour, 80), // ~0.83 %/h
	}

	periods := Detector{}.Detect(samples)
	if len(periods) != 1 {
		t.Fatalf("Detect() len = %d, want 1", len(periods))
	}
	p := periods[0]
	if p.Start != samples[0].Time.Unix() || p.End != samples[1].Time.Unix() {
		t.Fatalf("period = %+v, want gap bounds %d..%d", p, samples[0].Time.Unix(), samples[1].Time.Unix())
	}
	if p.DurationSecs != 12*3600 {
		t.Fatalf("DurationSecs = %d, want %d", p.DurationSecs, 12*3600)
	}
	if p.CapacityDiff != -10 {
		t.Fatalf("CapacityDiff = %v, want -10", p.CapacityDiff)
	}
}

func TestDetect_TwelveHourGapSteepDrainIsLoggerDowntime(t *testing.T) {
	samples := []records.Sample{
		sampleAt(0, 90),
		sampleAt(12*time.Hour, 10), // ~6.6 %/h: logger was not running
	}

	if periods := (Detector{}).Detect(samples); len(periods) != 0 {
		t.Fatalf("Detect() len = %d, want 0 for steep drain", len(periods))
	}
}

func TestDetect_ShortGapIgnored(t *testing.T) {
	samples := []records.Sample{
		sampleAt(0, 90),
		sampleAt(9*time.Minute, 89),
	}

	if periods := (Detector{}).Detect(samples); len(periods) != 0 {
		t.Fatalf("Detect() len = %d, want 0 for gap under threshold", len(periods))
	}
}

func TestDetect_ChargedWhileAsleepAccepted(t *testing.T) {
	samples := []records.Sample{
		sampleAt(0, 50),
		sampleAt(2*time.Hour, 95), // plugged in during suspend
	}

	periods := Detector{}.Detect(samples)
	if len(periods) != 1 {
		t.Fatalf("Detect() len = %d, want 1", len(periods))
	}
	if periods[0].CapacityDiff != 45 {
		t.Fatalf("CapacityDiff = %v, want 45", periods[0].CapacityDiff)
	}
}

func TestDetect_FewerThanTwoSamples(t *testing.T) {
	if periods := (Detector{}).Detect(nil); periods != nil {
		t.Fatalf("Detect(nil) = %v, want nil", periods)
	}
	if periods := (Detector{}).Detect([]records.Sample{sampleAt(0, 90)}); periods != nil {
		t.Fatalf("Detect(one sample) = %v, want nil", periods)
	}
}

func TestDetect_ChronologicalNonOverlapping(t *testing.T) {
	samples := []records.Sample{
		sampleAt(0, 90),
		sampleAt(30*time.Minute, 89),
		sampleAt(31*time.Minute, 89),
		sampleAt(2*time.Hour, 87),
		sampleAt(2*time.Hour+4*time.Second, 87),
	}

	periods := Detector{}.Detect(samples)
	if len(periods) != 2 {
		t.Fatalf("Detect() len = %d, want 2", len(periods))
	}
	for i := 1; i < len(periods); i++ {
		if periods[i].Start < periods[i-1].End {
			t.Fatalf("periods overlap or out of order: %+v", periods)
		}
	}
}

func TestDetect_OverridableThresholds(t *testing.T) {
	samples := []records.Sample{
		sampleAt(0, 90),
		sampleAt(5*time.Minute, 89),
	}

	d := Detector{GapThreshold: 4 * time.Minute}
	if periods := d.Detect(samples); len(periods) != 1 {
		t.Fatalf("Detect() with lowered gap threshold len = %d, want 1", len(periods))
	}

	d = Detector{GapThreshold: 4 * time.Minute, MaxDrainRatePerHour: 1}
	if periods := d.Detect(samples); len(periods) != 0 {
		t.Fatalf("Detect() with tightened drain ceiling len = %d, want 0", len(periods))
	}
}

func TestLast(t *testing.T) {
	if _, ok := (Detector{}).Last(nil); ok {
		t.Fatal("Last(nil) ok = true, want false")
	}

	samples := []records.Sample{
		sampleAt(0, 90),
		sampleAt(time.Hour, 89),
		sampleAt(time.Hour+time.Minute, 89),
		sampleAt(3*time.Hour, 88),
	}
	p, ok := Detector{}.Last(samples)
	if !ok {
		t.Fatal("Last() ok = false, want true")
	}
	if p.End != samples[3].Time.Unix() {
		t.Fatalf("Last().End = %d, want %d (final period)", p.End, samples[3].Time.Unix())
	}
}
