package bufr

import (
	"errors"
	"fmt"
)

// ErrTemplateMismatch marks a value that falls outside the physical range of
// its template element. The row's message is skipped; the batch continues.
var ErrTemplateMismatch = errors.New("value outside template element range")

// Assembler builds codec-ready messages for one fixed template.
type Assembler struct {
	template Template

	// averagingPeriod is the sensor averaging window in minutes, reported
	// as a negative timePeriod element per BUFR convention (-10 = the ten
	// minutes preceding the observation time).
	averagingPeriod int
}

// NewAssembler returns an Assembler for the given template.
// averagingPeriodMinutes is the station's sensor averaging window.
func NewAssembler(template Template, averagingPeriodMinutes int) *Assembler {
	return &Assembler{template: template, averagingPeriod: averagingPeriodMinutes}
}

// Template returns the fixed template this assembler encodes.
func (a *Assembler) Template() Template { return a.template }

// Assemble builds the full template element sequence for one observation.
// values maps ecCodes keys to resolved, unit-transformed measurements.
// Identification and date/time elements are filled from the header
// unconditionally; data elements come from values; every other template slot
// is explicitly marked missing. A value outside its element's physical range
// fails with ErrTemplateMismatch.
func (a *Assembler) Assemble(values map[string]float64, header Header) (Message, error) {
	msg := Message{
		TemplateID: a.template.ID,
		Header:     header,
		Elements:   make([]Element, 0, len(a.template.Sequence)),
	}

	for _, key := range a.template.Sequence {
		desc, err := ElementByKey(key)
		if err != nil {
			return Message{}, fmt.Errorf("template %d: %w", a.template.ID, err)
		}

		v, ok := a.elementValue(key, values, header)
		if !ok {
			msg.Elements = append(msg.Elements, Element{Descriptor: desc})
			continue
		}
		if !desc.InRange(v) {
			return Message{}, fmt.Errorf("%s=%g outside [%g, %g] (%s): %w",
				key, v, desc.Min, desc.Max, desc.Unit, ErrTemplateMismatch)
		}
		msg.Elements = append(msg.Elements, Element{Descriptor: desc, Value: &v})
	}

	return msg, nil
}

// elementValue resolves one template slot: header-derived elements first,
// then measured values, then the derived time-qualifier elements.
func (a *Assembler) elementValue(key string, values map[string]float64, header Header) (float64, bool) {
	switch key {
	case "blockNumber":
		return float64(header.BlockNumber), true
	case "stationNumber":
		return float64(header.StationNumber), true
	case "stationType":
		return float64(header.StationType), true
	case "year":
		return float64(header.ObservedAt.Year()), true
	case "month":
		return float64(header.ObservedAt.Month()), true
	case "day":
		return float64(header.ObservedAt.Day()), true
	case "hour":
		return float64(header.ObservedAt.Hour()), true
	case "minute":
		return float64(header.ObservedAt.Minute()), true
	case "timeSignificance":
		// 2 = temporally averaged, which is what AWS hourly records are.
		return 2, true
	case "timePeriod":
		if !a.hasPeriodElements(values) {
			return 0, false
		}
		return float64(-a.averagingPeriod), true
	}

	v, ok := values[key]
	return v, ok
}

// hasPeriodElements reports whether any period-integrated measurement is
// present; the timePeriod qualifier is only meaningful alongside one.
func (a *Assembler) hasPeriodElements(values map[string]float64) bool {
	for _, key := range []string{
		"windSpeed",
		"shortWaveRadiationIntegratedOverPeriodSpecified",
		"longWaveRadiationIntegratedOverPeriodSpecified",
	} {
		if _, ok := values[key]; ok {
			return true
		}
	}
	return false
}
