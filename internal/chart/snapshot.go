package chart

import (
	"math"

	"github.com/cptspacemanspiff/watt-monitor/internal/records"
)

// labelLayout formats the x-axis time labels.
const labelLayout = "15:04"

// minXRange keeps very short windows from producing a degenerate
// near-zero-width axis.
const minXRange = 60

// Point is one plotted value at a compressed x-coordinate.
type Point struct {
	X float64
	Y float64
}

// Marker places a sleep period on the compressed axis, positioned at the
// wake instant.
type Marker struct {
	X      float64
	Period SleepPeriod
}

// Snapshot is a display-ready chart, rebuilt from scratch every render.
type Snapshot struct {
	Capacity []Point
	Power    []Point
	XMax     float64 // x-axis runs 0..XMax
	Markers  []Marker
	Labels   [3]string // start, mid, end
}

// Assemble builds a snapshot from the filtered, effective-window sample set.
// periods may be the full detected list; only those intersecting the window
// contribute. An empty sample set yields the fixed empty snapshot rather
// than an error.
func Assemble(filtered []records.Sample, periods []SleepPeriod) Snapshot {
	if len(filtered) == 0 {
		return Snapshot{XMax: minXRange}
	}

	base := filtered[0].Time.Unix()
	viewEnd := filtered[len(filtered)-1].Time.Unix()

	var inView []SleepPeriod
	for _, p := range periods {
		if p.End >= base && p.Start <= viewEnd {
			inView = append(inView, p)
		}
	}

	capacity := make([]Point, len(filtered))
	power := make([]Point, len(filtered))
	for i, s := range filtered {
		x := CompressedX(s.Time.Unix(), base, inView)
		capacity[i] = Point{X: x, Y: s.Capacity}
		power[i] = Point{X: x, Y: s.Power}
	}

	var totalSleep int64
	for _, p := range inView {
		start, end := p.Start, p.End
		if start < base {
			start = base
		}
		if end > viewEnd {
			end = viewEnd
		}
		if d := end - start; d > 0 {
			totalSleep += d
		}
	}
	compressedDuration := float64(viewEnd - base - totalSleep)

	markers := make([]Marker, len(inView))
	for i, p := range inView {
		markers[i] = Marker{X: CompressedX(p.End, base, inView), Period: p}
	}

	return Snapshot{
		Capacity: capacity,
		Power:    power,
		XMax:     math.Max(minXRange, compressedDuration),
		Markers:  markers,
		Labels: [3]string{
			filtered[0].Time.Format(labelLayout),
			midLabel(filtered, base, compressedDuration, inView),
			filtered[len(filtered)-1].Time.Format(labelLayout),
		},
	}
}

// midLabel finds the actual sample whose compressed x is nearest the axis
// midpoint, giving a real timestamp even though the mapping is non-linear.
func midLabel(filtered []records.Sample, base int64, compressedDuration float64, inView []SleepPeriod) string {
	target := compressedDuration / 2
	best := filtered[0]
	bestDist := math.Inf(1)
	for _, s := range filtered {
		d := math.Abs(CompressedX(s.Time.Unix(), base, inView) - target)
		if d < bestDist {
			bestDist = d
			best = s
		}
	}
	return best.Time.Format(labelLayout)
}
