package lookup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTable = `source_name,standard_name,unit,scale,offset
AirTemperature(C),airTemperature,K,1,273.15
AirPressure(hPa),pressure,Pa,100,0
RelativeHumidity(%),relativeHumidity,%,,
LoggerBattery(V),,,,
`

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(validTable))
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())

	t.Run("mapped entry with transform", func(t *testing.T) {
		m, ok := table.Lookup("AirTemperature(C)")
		require.True(t, ok)
		assert.Equal(t, "airTemperature", m.StandardName)
		assert.False(t, m.Excluded())
		assert.InDelta(t, 255.0, m.Transform(-18.15), 1e-9)
	})

	t.Run("scale-only transform", func(t *testing.T) {
		m, ok := table.Lookup("AirPressure(hPa)")
		require.True(t, ok)
		assert.InDelta(t, 98530.0, m.Transform(985.3), 1e-9)
	})

	t.Run("empty transform columns default to identity", func(t *testing.T) {
		m, ok := table.Lookup("RelativeHumidity(%)")
		require.True(t, ok)
		assert.InDelta(t, 87.0, m.Transform(87.0), 1e-9)
	})

	t.Run("empty standard_name marks exclusion, not absence", func(t *testing.T) {
		m, ok := table.Lookup("LoggerBattery(V)")
		require.True(t, ok)
		assert.True(t, m.Excluded())
	})

	t.Run("unknown column is absent", func(t *testing.T) {
		_, ok := table.Lookup("WindGust(m/s)")
		assert.False(t, ok)
	})
}

func TestParse_DuplicateSourceName(t *testing.T) {
	in := `source_name,standard_name
TA1,airTemperature
TA1,dewpointTemperature
`
	_, err := Parse(strings.NewReader(in))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTable)
	assert.Contains(t, err.Error(), "duplicate source_name")
	assert.Contains(t, err.Error(), "TA1")
}

func TestParse_DuplicateStandardName(t *testing.T) {
	in := `source_name,standard_name
ShortwaveRadiationDown_Cor(W/m2),shortWaveRadiationIntegratedOverPeriodSpecified
ShortwaveRadiationUp_Cor(W/m2),shortWaveRadiationIntegratedOverPeriodSpecified
`
	_, err := Parse(strings.NewReader(in))
	require.Error(t, err, "two columns feeding one template slot would drop one of them")
	assert.ErrorIs(t, err, ErrInvalidTable)
	assert.Contains(t, err.Error(), "ShortwaveRadiationDown_Cor(W/m2)")
	assert.Contains(t, err.Error(), "ShortwaveRadiationUp_Cor(W/m2)")
	assert.Contains(t, err.Error(), "shortWaveRadiationIntegratedOverPeriodSpecified")
}

func TestParse_MultipleExcludedColumnsAllowed(t *testing.T) {
	in := `source_name,standard_name
LoggerBattery(V),
TiltX(deg),
TA1,airTemperature
`
	table, err := Parse(strings.NewReader(in))
	require.NoError(t, err, "exclusions share the empty standard_name without conflicting")
	assert.Equal(t, 3, table.Len())
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "no standard_name", in: "source_name,unit\nTA1,C\n"},
		{name: "no source_name", in: "standard_name,unit\nairTemperature,K\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTable)
			assert.Contains(t, err.Error(), "missing required column")
		})
	}
}

func TestParse_UnknownStandardName(t *testing.T) {
	in := `source_name,standard_name
TA1,notABufrElement
`
	_, err := Parse(strings.NewReader(in))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTable)
	assert.Contains(t, err.Error(), "notABufrElement")
}

func TestParse_BadTransformValue(t *testing.T) {
	in := `source_name,standard_name,unit,scale,offset
TA1,airTemperature,K,abc,0
`
	_, err := Parse(strings.NewReader(in))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTable)
}

func TestParse_EmptySourceName(t *testing.T) {
	in := "source_name,standard_name\n,airTemperature\n"
	_, err := Parse(strings.NewReader(in))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTable)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("does/not/exist.csv")
	require.Error(t, err)
}
