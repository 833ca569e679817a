package records

import "time"

// Battery status strings as reported by the kernel. Anything else is passed
// through unmodified.
const (
	StatusCharging    = "Charging"
	StatusDischarging = "Discharging"
	StatusFull        = "Full"
)

// TimeLayout is the timestamp format used in the log files (local time).
const TimeLayout = "2006-01-02 15:04:05"

// DateLayout names archive files and formats calendar dates.
const DateLayout = "2006-01-02"

// Sample is one row of the battery log. Samples are immutable once appended
// and non-decreasing in time within a store.
type Sample struct {
	Time     time.Time
	Status   string
	Capacity float64 // percent, 0-100
	Power    float64 // watts, sign passed through from the kernel
}
