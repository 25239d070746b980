package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedRow marks a row whose critical fields (the timestamp columns)
// cannot be parsed. The row is skipped; the batch continues.
var ErrMalformedRow = errors.New("malformed observation row")

// Timestamp column names in PROMICE/GC-Net hourly files.
const (
	colYear  = "Year"
	colMonth = "MonthOfYear"
	colDay   = "DayOfMonth"
	colHour  = "HourOfDay(UTC)"
)

// DefaultSentinel is the station firmware's missing-value marker.
const DefaultSentinel = -999

// Normalizer converts raw rows into ObservationRecords, applying the
// missing-value sentinel policy uniformly across all fields.
type Normalizer struct {
	StationID string
	Sentinel  float64
}

// Normalize parses one raw row. Sentinel-valued and unparseable non-critical
// fields become absent; an unparseable timestamp fails the row with
// ErrMalformedRow.
func (n Normalizer) Normalize(raw RawRow) (ObservationRecord, error) {
	ts, err := n.timestamp(raw)
	if err != nil {
		return ObservationRecord{}, fmt.Errorf("line %d: %w: %v", raw.Line, ErrMalformedRow, err)
	}

	values := make(map[string]float64, len(raw.Fields))
	for name, field := range raw.Fields {
		if isTimestampColumn(name) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			// One bad sensor reading must not discard the whole row.
			continue
		}
		if v == n.Sentinel {
			continue
		}
		values[name] = v
	}

	return ObservationRecord{
		StationID: n.StationID,
		Timestamp: ts,
		Line:      raw.Line,
		Values:    values,
	}, nil
}

func (n Normalizer) timestamp(raw RawRow) (time.Time, error) {
	parts := make(map[string]int, 4)
	for _, name := range []string{colYear, colMonth, colDay, colHour} {
		field, ok := raw.Fields[name]
		if !ok {
			return time.Time{}, fmt.Errorf("missing column %q", name)
		}
		// Some loggers write timestamp parts as floats ("2023.0").
		f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("column %q: %v", name, err)
		}
		parts[name] = int(f)
	}

	month := parts[colMonth]
	day := parts[colDay]
	hour := parts[colHour]
	if month < 1 || month > 12 || day < 1 || day > 31 || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("date out of range: %d-%d-%d %d:00", parts[colYear], month, day, hour)
	}

	// time.Date normalizes impossible dates (Feb 30 → Mar 2); an observation
	// must carry the date it claims, so reject anything that shifted.
	ts := time.Date(parts[colYear], time.Month(month), day, hour, 0, 0, 0, time.UTC)
	if ts.Year() != parts[colYear] || ts.Month() != time.Month(month) || ts.Day() != day {
		return time.Time{}, fmt.Errorf("impossible date: %d-%02d-%02d", parts[colYear], month, day)
	}
	return ts, nil
}

func isTimestampColumn(name string) bool {
	switch name {
	case colYear, colMonth, colDay, colHour:
		return true
	}
	return false
}
