// Package domain models PROMICE/GC-Net automatic weather station (AWS)
// observation rows and their resolution into BUFR element values.
//
// # Data source
//
// AWS observations arrive as delimited text files, one row per hourly
// record, with self-describing column headers such as "AirTemperature(C)" or
// "WindSpeed(m/s)". The date-time of a record is split over the Year,
// MonthOfYear, DayOfMonth and HourOfDay(UTC) columns. Which files to convert
// is the caller's concern; this package only ever sees parsed rows.
//
// # Missing-value sentinel
//
// The station firmware writes -999 for any sensor reading it does not have.
// A sentinel value is "no measurement", never a measured zero or a real
// negative reading, so normalization removes sentinel fields from the record
// entirely. Downstream stages never see a placeholder: a field is either a
// real measurement or absent.
//
// # Resolution policy
//
// Each surviving column is resolved against the variable-mapping table with
// three possible outcomes:
//
//   - mapped: the column has a standard BUFR element name; the value is
//     unit-transformed and included
//   - excluded: the column is in the table with an empty standard name;
//     dropped quietly as an intentional operator decision
//   - unknown: the column is not in the table at all; dropped with a
//     warning, once per column per run
//
// Resolution is best-effort and partial. A row is only ever rejected for an
// unparseable critical field (timestamp); a single dead sensor must not
// discard an otherwise good observation.
package domain
