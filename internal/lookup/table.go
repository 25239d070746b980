// Package lookup loads the station-variable → BUFR element mapping table.
//
// The table is a CSV with a header row and at minimum the columns
// source_name and standard_name. A row with an empty standard_name keeps the
// variable in the table but excludes it from output; the distinction between
// "known and intentionally dropped" and "never heard of this column" matters
// for diagnostics. Optional unit/scale/offset columns describe the linear
// transform into the BUFR unit (°C → K is scale 1 offset 273.15, hPa → Pa is
// scale 100 offset 0).
//
// The table is loaded once at startup, validated eagerly, and immutable
// afterwards, so it can be shared across rows and files without locking.
package lookup

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/promice/aws2bufr/internal/bufr"
)

// ErrInvalidTable marks a lookup table that cannot be used: missing required
// columns, duplicate source names, or standard names the bundled element
// table does not know. Always fatal, before any observation row is touched.
var ErrInvalidTable = errors.New("invalid lookup table")

// VariableMapping is one row of the table.
type VariableMapping struct {
	SourceName   string
	StandardName string // ecCodes element key; empty means excluded
	Unit         string
	Scale        float64
	Offset       float64
}

// Excluded reports whether the variable is known but intentionally dropped.
func (m VariableMapping) Excluded() bool { return m.StandardName == "" }

// Transform applies the mapping's linear unit transform.
func (m VariableMapping) Transform(v float64) float64 {
	return v*m.Scale + m.Offset
}

// Table is the immutable variable-mapping table.
type Table struct {
	mappings map[string]VariableMapping
}

// Load reads and validates a mapping table from a CSV file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lookup table: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("lookup table %s: %w", path, err)
	}
	return t, nil
}

// Parse reads a mapping table from CSV content.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidTable, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"source_name", "standard_name"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", ErrInvalidTable, required)
		}
	}

	mappings := make(map[string]VariableMapping)
	byStandard := make(map[string]string)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
		}

		m, err := parseMapping(record, cols)
		if err != nil {
			return nil, err
		}
		if _, dup := mappings[m.SourceName]; dup {
			// Duplicates are ambiguous; last-write-wins would silently
			// change the output depending on row order.
			return nil, fmt.Errorf("%w: duplicate source_name %q", ErrInvalidTable, m.SourceName)
		}
		if !m.Excluded() {
			// Each template has one slot per element, so two columns mapped
			// to the same element would overwrite each other arbitrarily.
			if other, dup := byStandard[m.StandardName]; dup {
				return nil, fmt.Errorf("%w: %s and %s both map to %q",
					ErrInvalidTable, other, m.SourceName, m.StandardName)
			}
			byStandard[m.StandardName] = m.SourceName
		}
		mappings[m.SourceName] = m
	}

	return &Table{mappings: mappings}, nil
}

func parseMapping(record []string, cols map[string]int) (VariableMapping, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	m := VariableMapping{
		SourceName:   field("source_name"),
		StandardName: field("standard_name"),
		Unit:         field("unit"),
		Scale:        1,
	}
	if m.SourceName == "" {
		return VariableMapping{}, fmt.Errorf("%w: empty source_name", ErrInvalidTable)
	}
	if m.StandardName != "" && !bufr.KnownElement(m.StandardName) {
		return VariableMapping{}, fmt.Errorf("%w: %s maps to unknown BUFR element %q",
			ErrInvalidTable, m.SourceName, m.StandardName)
	}

	if s := field("scale"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return VariableMapping{}, fmt.Errorf("%w: %s: bad scale %q", ErrInvalidTable, m.SourceName, s)
		}
		m.Scale = v
	}
	if s := field("offset"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return VariableMapping{}, fmt.Errorf("%w: %s: bad offset %q", ErrInvalidTable, m.SourceName, s)
		}
		m.Offset = v
	}

	return m, nil
}

// Lookup returns the mapping for a station column name.
func (t *Table) Lookup(sourceName string) (VariableMapping, bool) {
	m, ok := t.mappings[sourceName]
	return m, ok
}

// Len returns the number of table entries, excluded ones included.
func (t *Table) Len() int { return len(t.mappings) }

// Mappings returns a copy of all entries, for diagnostics tooling.
func (t *Table) Mappings() []VariableMapping {
	out := make([]VariableMapping, 0, len(t.mappings))
	for _, m := range t.mappings {
		out = append(out, m)
	}
	return out
}
