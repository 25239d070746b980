// Package bufr models the structured form of a WMO BUFR message and the
// assembly of observation values into a fixed message template.
//
// # BUFR in brief
//
// BUFR (FM 94, Binary Universal Form for the Representation of meteorological
// data) is a self-describing binary format. Each data field is identified by a
// six-digit descriptor "F-XX-YYY" from WMO Table B, which fixes the field's
// physical meaning, unit, scale and bit width. A template is a numbered,
// fixed sequence of descriptors from Table D defining the layout of a whole
// message class, e.g. 307080 for synoptic reports from fixed land stations
// and 307090 for the mobile-station variant.
//
// # Structured messages, delegated encoding
//
// This package never touches BUFR bit packing. It produces a [Message]: the
// section 1 header metadata plus the template's element sequence in template
// order, with every element either carrying a value or explicitly marked
// missing. Elements are addressed by their ecCodes key names (airTemperature,
// windSpeed, ...) because the external codec collaborator is ecCodes-based;
// the numeric Table B descriptor travels alongside for ordering and
// diagnostics. Wire encoding and decoding happen behind the [Codec]
// interface (see internal/adapter/eccodes).
//
// # Missing values
//
// A template element with no measurement is encoded as the codec's missing
// marker, never omitted: dropping an element would desynchronize the fixed
// descriptor sequence for every field after it. In a [Message] a nil Value
// means missing.
//
// # Validity ranges
//
// Each element carries the physical range implied by its BUFR unit, scale and
// reference value (e.g. air temperature in kelvin cannot be 0). The assembler
// rejects out-of-range values with [ErrTemplateMismatch] before they ever
// reach the codec, so data-quality problems surface as skipped rows rather
// than opaque encoder failures.
package bufr
