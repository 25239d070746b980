package bufr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeader() Header {
	h := DefaultHeader(98, 0, 13)
	h.StationID = "QAS_L"
	h.BlockNumber = 4
	h.StationNumber = 401
	h.ObservedAt = time.Date(2023, 2, 17, 6, 0, 0, 0, time.UTC)
	return h
}

func mustTemplate(t *testing.T, id int) Template {
	t.Helper()
	tpl, err := TemplateByID(id)
	require.NoError(t, err)
	return tpl
}

func TestAssemble(t *testing.T) {
	a := NewAssembler(mustTemplate(t, 307080), 10)

	msg, err := a.Assemble(map[string]float64{
		"airTemperature":   254.95,
		"pressure":         98530,
		"relativeHumidity": 87,
		"windSpeed":        4.1,
		"latitude":         67.07,
		"longitude":        -50.69,
	}, testHeader())
	require.NoError(t, err)

	assert.Equal(t, 307080, msg.TemplateID)
	require.Len(t, msg.Elements, len(a.Template().Sequence))

	t.Run("elements follow template order, not input order", func(t *testing.T) {
		for i, key := range a.Template().Sequence {
			assert.Equal(t, key, msg.Elements[i].Descriptor.Key, "element %d", i)
		}
	})

	values := msg.Values()

	t.Run("header elements filled unconditionally", func(t *testing.T) {
		assert.Equal(t, 4.0, values["blockNumber"])
		assert.Equal(t, 401.0, values["stationNumber"])
		assert.Equal(t, 0.0, values["stationType"])
		assert.Equal(t, 2023.0, values["year"])
		assert.Equal(t, 2.0, values["month"])
		assert.Equal(t, 17.0, values["day"])
		assert.Equal(t, 6.0, values["hour"])
		assert.Equal(t, 0.0, values["minute"])
	})

	t.Run("data elements carry resolved values", func(t *testing.T) {
		assert.InDelta(t, 254.95, values["airTemperature"], 1e-9)
		assert.InDelta(t, 98530, values["pressure"], 1e-9)
		assert.InDelta(t, 87, values["relativeHumidity"], 1e-9)
		assert.InDelta(t, 67.07, values["latitude"], 1e-9)
	})

	t.Run("unfilled template slots are explicitly missing", func(t *testing.T) {
		byKey := map[string]Element{}
		for _, e := range msg.Elements {
			byKey[e.Descriptor.Key] = e
		}
		assert.True(t, byKey["dewpointTemperature"].Missing())
		assert.True(t, byKey["cloudCoverTotal"].Missing())
		assert.True(t, byKey["horizontalVisibility"].Missing())
	})

	t.Run("time qualifiers derived for averaged measurements", func(t *testing.T) {
		assert.Equal(t, 2.0, values["timeSignificance"])
		assert.Equal(t, -10.0, values["timePeriod"])
	})
}

func TestAssemble_NoPeriodElementsNoTimePeriod(t *testing.T) {
	a := NewAssembler(mustTemplate(t, 307080), 10)

	msg, err := a.Assemble(map[string]float64{"airTemperature": 254.95}, testHeader())
	require.NoError(t, err)

	_, ok := msg.Values()["timePeriod"]
	assert.False(t, ok, "timePeriod is meaningless without a period-integrated element")
}

func TestAssemble_OutOfRangeValue(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  float64
	}{
		{name: "temperature below physical range", key: "airTemperature", value: 90},
		{name: "relative humidity above 100", key: "relativeHumidity", value: 250},
		{name: "wind direction above 360", key: "windDirection", value: 999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAssembler(mustTemplate(t, 307080), 10)
			_, err := a.Assemble(map[string]float64{tt.key: tt.value}, testHeader())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTemplateMismatch)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestAssemble_MobileTemplate(t *testing.T) {
	a := NewAssembler(mustTemplate(t, 307090), 10)

	msg, err := a.Assemble(map[string]float64{"airTemperature": 254.95}, testHeader())
	require.NoError(t, err)
	assert.Equal(t, 307090, msg.TemplateID)
	assert.False(t, a.Template().Contains("heightOfBarometerAboveMeanSeaLevel"))
}

func TestTemplateByID_Unknown(t *testing.T) {
	_, err := TemplateByID(123456)
	require.Error(t, err)
}

func TestTemplates_AllSequenceKeysKnown(t *testing.T) {
	for _, id := range []int{307080, 307090} {
		tpl := mustTemplate(t, id)
		for _, key := range tpl.Sequence {
			_, err := ElementByKey(key)
			assert.NoError(t, err, "template %d key %s", id, key)
		}
	}
}

func TestDescriptor_InRange(t *testing.T) {
	d, err := ElementByKey("relativeHumidity")
	require.NoError(t, err)
	assert.True(t, d.InRange(0))
	assert.True(t, d.InRange(100))
	assert.False(t, d.InRange(100.1))
	assert.False(t, d.InRange(-1))
}
