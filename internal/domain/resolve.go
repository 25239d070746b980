package domain

import (
	"log/slog"
	"sort"

	"github.com/promice/aws2bufr/internal/bufr"
	"github.com/promice/aws2bufr/internal/lookup"
)

// Resolver maps observation fields to BUFR elements via the lookup table.
// It remembers which unknown columns it has already warned about so a
// column missing from the table logs once per run, not once per row.
type Resolver struct {
	table  *lookup.Table
	logger *slog.Logger

	unknownSeen map[string]struct{}
}

// NewResolver creates a Resolver over an immutable lookup table.
func NewResolver(table *lookup.Table, logger *slog.Logger) *Resolver {
	return &Resolver{
		table:       table,
		logger:      logger,
		unknownSeen: make(map[string]struct{}),
	}
}

// Resolve maps every present field of the record. Resolution never fails:
// excluded and unknown columns are dropped with distinct log reasons, and
// the result contains only fields with a real mapping and a real value.
// Output is ordered by BUFR descriptor code.
func (r *Resolver) Resolve(record ObservationRecord) ResolvedObservation {
	resolved := ResolvedObservation{
		StationID: record.StationID,
		Timestamp: record.Timestamp,
		Line:      record.Line,
		Values:    make([]ResolvedValue, 0, len(record.Values)),
	}

	for name, value := range record.Values {
		mapping, ok := r.table.Lookup(name)
		if !ok {
			if _, warned := r.unknownSeen[name]; !warned {
				r.unknownSeen[name] = struct{}{}
				r.logger.Warn("column not in lookup table, dropping",
					"column", name)
			}
			continue
		}
		if mapping.Excluded() {
			r.logger.Debug("column excluded by lookup table", "column", name)
			continue
		}

		// Load validated every standard name against the element table,
		// so this cannot fail for a loaded mapping.
		desc, err := bufr.ElementByKey(mapping.StandardName)
		if err != nil {
			r.logger.Error("mapping references unknown element",
				"column", name, "standard_name", mapping.StandardName, "error", err)
			continue
		}

		resolved.Values = append(resolved.Values, ResolvedValue{
			SourceName:   name,
			StandardName: mapping.StandardName,
			Descriptor:   desc,
			Value:        mapping.Transform(value),
		})
	}

	sort.Slice(resolved.Values, func(i, j int) bool {
		return resolved.Values[i].Descriptor.FXY < resolved.Values[j].Descriptor.FXY
	})

	return resolved
}

// UnmappedColumns returns the sorted set of columns that were dropped as
// unknown during this run, for the end-of-run summary.
func (r *Resolver) UnmappedColumns() []string {
	out := make([]string, 0, len(r.unknownSeen))
	for name := range r.unknownSeen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
