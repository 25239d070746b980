package bufr

import "time"

// Header carries the section 1 metadata of a message plus the station
// identity used to fill the template's identification elements.
// Defaults mirror the original PROMICE export: edition 4, master table 0
// version 13, data category 0 (surface land), subcategory 7 (n-min AWS
// observations).
type Header struct {
	Edition                      int
	MasterTableNumber            int
	MasterTablesVersionNumber    int
	LocalTablesVersionNumber     int
	OriginatingCentre            int
	OriginatingSubCentre         int
	UpdateSequenceNumber         int
	DataCategory                 int
	InternationalDataSubCategory int

	StationID     string // free-text station identifier, e.g. "QAS_L"
	BlockNumber   int    // WMO block number
	StationNumber int    // WMO station number
	StationType   int    // 0 = automatic

	ObservedAt time.Time // typical date-time of the observation, UTC
}

// DefaultHeader returns a Header with the section 1 constants used by the
// original export, leaving station identity and timestamp zero.
func DefaultHeader(originatingCentre, originatingSubCentre, masterTablesVersion int) Header {
	return Header{
		Edition:                      4,
		MasterTableNumber:            0,
		MasterTablesVersionNumber:    masterTablesVersion,
		LocalTablesVersionNumber:     0,
		OriginatingCentre:            originatingCentre,
		OriginatingSubCentre:         originatingSubCentre,
		UpdateSequenceNumber:         0,
		DataCategory:                 0,
		InternationalDataSubCategory: 7,
	}
}

// Element is one slot of the template sequence. A nil Value means the
// element is encoded as the codec's missing marker.
type Element struct {
	Descriptor Descriptor
	Value      *float64
}

// Missing reports whether the element carries no value.
func (e Element) Missing() bool { return e.Value == nil }

// Message is the structured, codec-ready form of one observation: section 1
// header metadata plus the full template element sequence in template order.
// Messages are built once by Assemble and never mutated.
type Message struct {
	TemplateID int
	Header     Header
	Elements   []Element
}

// Values returns the non-missing elements as an ecCodes key → value map.
func (m Message) Values() map[string]float64 {
	out := make(map[string]float64)
	for _, e := range m.Elements {
		if e.Value != nil {
			out[e.Descriptor.Key] = *e.Value
		}
	}
	return out
}
