package chart

// TotalSleepBefore sums the in-window sleep time elapsed before ts: for each
// period ending at or before ts, its length clipped at base. Non-negative
// and non-decreasing in ts.
func TotalSleepBefore(ts, base int64, periods []SleepPeriod) int64 {
	var total int64
	for _, p := range periods {
		if p.End > ts {
			continue
		}
		start := p.Start
		if start < base {
			start = base
		}
		if d := p.End - start; d > 0 {
			total += d
		}
	}
	return total
}

// CompressedX maps an instant to the chart's x-coordinate: wall-clock time
// elapsed since base, minus time spent in sleep periods, so collapsed gaps
// take no horizontal space. Strictly increasing for any two instants not
// separated by a sleep period. Only periods intersecting the displayed
// window should be supplied; compression is local to the window.
func CompressedX(ts, base int64, periods []SleepPeriod) float64 {
	return float64((ts - base) - TotalSleepBefore(ts, base, periods))
}
