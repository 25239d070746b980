package pipeline

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promice/aws2bufr/internal/domain"
)

func TestFileSource_Whitespace(t *testing.T) {
	in := `Year MonthOfYear DayOfMonth HourOfDay(UTC) AirTemperature(C)
2023 2 17 6 -18.2

2023 2 17 7 -17.9
`
	src := NewFileSource(strings.NewReader(in), 0)

	row, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, row.Line)
	assert.Equal(t, "-18.2", row.Fields["AirTemperature(C)"])
	assert.Equal(t, "2023", row.Fields["Year"])

	// Blank lines are skipped, line numbers still track the file.
	row, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, 4, row.Line)
	assert.Equal(t, "-17.9", row.Fields["AirTemperature(C)"])

	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFileSource_Comma(t *testing.T) {
	in := "Year,MonthOfYear,DayOfMonth,HourOfDay(UTC),AirTemperature(C)\n2023,2,17,6,-18.2\n"
	src := NewFileSource(strings.NewReader(in), ',')

	row, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "-18.2", row.Fields["AirTemperature(C)"])

	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFileSource_FieldCountMismatch(t *testing.T) {
	in := `Year MonthOfYear DayOfMonth HourOfDay(UTC) AirTemperature(C)
2023 2 17 6
2023 2 17 7 -17.9
`
	src := NewFileSource(strings.NewReader(in), 0)

	_, err := src.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedRow)

	// The source recovers: the next row is still readable.
	row, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "-17.9", row.Fields["AirTemperature(C)"])
}

func TestFileSource_EmptyInput(t *testing.T) {
	src := NewFileSource(strings.NewReader(""), 0)
	_, err := src.Next()
	assert.ErrorIs(t, err, io.EOF)
}
