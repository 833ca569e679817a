package records

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"
)

// Header is the fixed first line of every log file.
const Header = "Time,Status,Capacity(%),Power(W)"

// ParseFile reads all samples from a log file. Malformed rows are dropped
// individually; a decode failure never aborts the remaining rows. This
// tolerates a torn last line from a concurrent collector write.
func ParseFile(path string) ([]Sample, error) {
	return ParseFileFrom(path, 0)
}

// ParseFileFrom reads samples from a log file, skipping the first skip
// successfully decoded rows. Skipping counts decoded rows only, so a torn
// line that later completes is picked up by the next read.
func ParseFileFrom(path string, skip int) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseRows(f, skip), nil
}

func parseRows(r io.Reader, skip int) []Sample {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var samples []Sample
	decoded := 0
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if first {
			first = false
			if len(row) > 0 && row[0] == "Time" {
				continue
			}
		}
		s, ok := decodeRow(row)
		if !ok {
			continue
		}
		decoded++
		if decoded <= skip {
			continue
		}
		samples = append(samples, s)
	}
	return samples
}

func decodeRow(row []string) (Sample, bool) {
	if len(row) != 4 {
		return Sample{}, false
	}
	t, err := time.ParseInLocation(TimeLayout, row[0], time.Local)
	if err != nil {
		return Sample{}, false
	}
	capacity, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return Sample{}, false
	}
	power, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return Sample{}, false
	}
	return Sample{Time: t, Status: row[1], Capacity: capacity, Power: power}, true
}
