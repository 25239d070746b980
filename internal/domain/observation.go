package domain

import (
	"time"

	"github.com/promice/aws2bufr/internal/bufr"
)

// RawRow is one observation line as read from an input file, keyed by the
// file's header columns. Values are still raw text.
type RawRow struct {
	Line   int // 1-based line number in the source file, for diagnostics
	Fields map[string]string
}

// ObservationRecord is one normalized observation. Values holds only fields
// that parsed as numbers and are not the missing-value sentinel; everything
// else is absent. Records are transient: built per row, consumed
// immediately, never persisted.
type ObservationRecord struct {
	StationID string
	Timestamp time.Time // UTC
	Line      int
	Values    map[string]float64
}

// ResolvedValue is one observation field after lookup-table resolution:
// the source column, its BUFR element, and the unit-transformed value.
type ResolvedValue struct {
	SourceName   string
	StandardName string
	Descriptor   bufr.Descriptor
	Value        float64
}

// ResolvedObservation is the mapped subset of an ObservationRecord, ordered
// by BUFR descriptor code so downstream ordering is deterministic regardless
// of input column order. Unresolved fields are absent, never null-valued.
type ResolvedObservation struct {
	StationID string
	Timestamp time.Time
	Line      int
	Values    []ResolvedValue
}

// AsMap returns the resolved values keyed by BUFR element key, the shape the
// message assembler consumes.
func (r ResolvedObservation) AsMap() map[string]float64 {
	out := make(map[string]float64, len(r.Values))
	for _, v := range r.Values {
		out[v.StandardName] = v.Value
	}
	return out
}

// EncodedMessage is one wire-encoded BUFR message with the metadata the
// sinks need: the file writer appends Data as-is, the Kafka publisher keys
// and annotates with the rest.
type EncodedMessage struct {
	StationID  string
	ObservedAt time.Time
	TemplateID int
	Data       []byte
	EncodedAt  time.Time
}
