package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRow() RawRow {
	return RawRow{
		Line: 2,
		Fields: map[string]string{
			"Year":                 "2023",
			"MonthOfYear":          "2",
			"DayOfMonth":           "17",
			"HourOfDay(UTC)":       "6",
			"AirTemperature(C)":    "-18.2",
			"AirPressure(hPa)":     "985.3",
			"RelativeHumidity(%)":  "87",
			"WindSpeed(m/s)":       "4.1",
			"ShortwaveRadiationDown_Cor(W/m2)": "-999",
		},
	}
}

func TestNormalize(t *testing.T) {
	n := Normalizer{StationID: "QAS_L", Sentinel: -999}

	rec, err := n.Normalize(baseRow())
	require.NoError(t, err)

	assert.Equal(t, "QAS_L", rec.StationID)
	assert.Equal(t, time.Date(2023, 2, 17, 6, 0, 0, 0, time.UTC), rec.Timestamp)
	assert.Equal(t, 2, rec.Line)

	assert.InDelta(t, -18.2, rec.Values["AirTemperature(C)"], 1e-9)
	assert.InDelta(t, 985.3, rec.Values["AirPressure(hPa)"], 1e-9)

	// The sentinel means "no measurement": the field must be absent, never
	// carried through as a literal -999.
	_, present := rec.Values["ShortwaveRadiationDown_Cor(W/m2)"]
	assert.False(t, present)

	// Timestamp parts are consumed, not forwarded as measurements.
	_, present = rec.Values["Year"]
	assert.False(t, present)
}

func TestNormalize_SentinelIsConfigurable(t *testing.T) {
	n := Normalizer{StationID: "QAS_L", Sentinel: -9999}

	row := baseRow()
	row.Fields["AirTemperature(C)"] = "-9999"
	row.Fields["WindSpeed(m/s)"] = "-999" // a real (if absurd) value under this sentinel

	rec, err := n.Normalize(row)
	require.NoError(t, err)

	_, present := rec.Values["AirTemperature(C)"]
	assert.False(t, present)
	assert.InDelta(t, -999, rec.Values["WindSpeed(m/s)"], 1e-9)
}

func TestNormalize_NonCriticalParseFailureDropsField(t *testing.T) {
	n := Normalizer{StationID: "QAS_L", Sentinel: -999}

	row := baseRow()
	row.Fields["WindSpeed(m/s)"] = "NAN"

	rec, err := n.Normalize(row)
	require.NoError(t, err, "a single bad sensor reading must not discard the row")

	_, present := rec.Values["WindSpeed(m/s)"]
	assert.False(t, present)
	assert.InDelta(t, -18.2, rec.Values["AirTemperature(C)"], 1e-9)
}

func TestNormalize_MalformedTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(RawRow)
	}{
		{name: "unparseable year", mutate: func(r RawRow) { r.Fields["Year"] = "twenty23" }},
		{name: "missing hour column", mutate: func(r RawRow) { delete(r.Fields, "HourOfDay(UTC)") }},
		{name: "month out of range", mutate: func(r RawRow) { r.Fields["MonthOfYear"] = "13" }},
		{name: "hour out of range", mutate: func(r RawRow) { r.Fields["HourOfDay(UTC)"] = "24" }},
		{name: "impossible calendar date", mutate: func(r RawRow) { r.Fields["DayOfMonth"] = "30" }}, // Feb 30
		{name: "non-leap-year Feb 29", mutate: func(r RawRow) { r.Fields["DayOfMonth"] = "29" }},     // 2023
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalizer{StationID: "QAS_L", Sentinel: -999}
			row := baseRow()
			tt.mutate(row)

			_, err := n.Normalize(row)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedRow)
		})
	}
}

func TestNormalize_FloatTimestampParts(t *testing.T) {
	n := Normalizer{StationID: "QAS_L", Sentinel: -999}

	row := baseRow()
	row.Fields["Year"] = "2023.0"
	row.Fields["HourOfDay(UTC)"] = "6.0"

	rec, err := n.Normalize(row)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 2, 17, 6, 0, 0, 0, time.UTC), rec.Timestamp)
}
