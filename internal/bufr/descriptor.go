package bufr

import "fmt"

// Descriptor identifies one Table B element: its F-XX-YYY code, the ecCodes
// key used to address it, the BUFR unit, and the physical validity range
// implied by the element's unit/scale/reference.
type Descriptor struct {
	FXY  string // Table B code, e.g. "012101"
	Key  string // ecCodes key, e.g. "airTemperature"
	Unit string
	Min  float64
	Max  float64
}

// elements is the subset of WMO Table B used by the synoptic AWS templates.
// Ranges follow the representable span of each element, tightened to
// physically plausible bounds where the raw bit range is far wider.
var elements = []Descriptor{
	{FXY: "001001", Key: "blockNumber", Unit: "Numeric", Min: 0, Max: 99},
	{FXY: "001002", Key: "stationNumber", Unit: "Numeric", Min: 0, Max: 999},
	{FXY: "002001", Key: "stationType", Unit: "Code table", Min: 0, Max: 3},
	{FXY: "004001", Key: "year", Unit: "a", Min: 1900, Max: 2200},
	{FXY: "004002", Key: "month", Unit: "mon", Min: 1, Max: 12},
	{FXY: "004003", Key: "day", Unit: "d", Min: 1, Max: 31},
	{FXY: "004004", Key: "hour", Unit: "h", Min: 0, Max: 23},
	{FXY: "004005", Key: "minute", Unit: "min", Min: 0, Max: 59},
	{FXY: "004025", Key: "timePeriod", Unit: "min", Min: -2048, Max: 2047},
	{FXY: "005001", Key: "latitude", Unit: "deg", Min: -90, Max: 90},
	{FXY: "006001", Key: "longitude", Unit: "deg", Min: -180, Max: 180},
	{FXY: "007030", Key: "heightOfStationGroundAboveMeanSeaLevel", Unit: "m", Min: -400, Max: 9000},
	{FXY: "007031", Key: "heightOfBarometerAboveMeanSeaLevel", Unit: "m", Min: -400, Max: 9000},
	{FXY: "007032", Key: "heightOfSensorAboveLocalGroundOrDeckOfMarinePlatform", Unit: "m", Min: 0, Max: 100},
	{FXY: "008021", Key: "timeSignificance", Unit: "Code table", Min: 0, Max: 31},
	{FXY: "010004", Key: "pressure", Unit: "Pa", Min: 30000, Max: 110000},
	{FXY: "010051", Key: "pressureReducedToMeanSeaLevel", Unit: "Pa", Min: 80000, Max: 110000},
	{FXY: "011001", Key: "windDirection", Unit: "deg", Min: 0, Max: 360},
	{FXY: "011002", Key: "windSpeed", Unit: "m/s", Min: 0, Max: 150},
	{FXY: "012101", Key: "airTemperature", Unit: "K", Min: 173, Max: 333},
	{FXY: "012103", Key: "dewpointTemperature", Unit: "K", Min: 173, Max: 333},
	{FXY: "013003", Key: "relativeHumidity", Unit: "%", Min: 0, Max: 100},
	{FXY: "014002", Key: "longWaveRadiationIntegratedOverPeriodSpecified", Unit: "J m-2", Min: -2e7, Max: 2e7},
	{FXY: "014004", Key: "shortWaveRadiationIntegratedOverPeriodSpecified", Unit: "J m-2", Min: -2e7, Max: 2e7},
	{FXY: "020001", Key: "horizontalVisibility", Unit: "m", Min: 0, Max: 100000},
	{FXY: "020010", Key: "cloudCoverTotal", Unit: "%", Min: 0, Max: 100},
}

var elementsByKey = func() map[string]Descriptor {
	m := make(map[string]Descriptor, len(elements))
	for _, d := range elements {
		m[d.Key] = d
	}
	return m
}()

// ElementByKey returns the Table B descriptor for an ecCodes key.
func ElementByKey(key string) (Descriptor, error) {
	d, ok := elementsByKey[key]
	if !ok {
		return Descriptor{}, fmt.Errorf("unknown BUFR element key %q", key)
	}
	return d, nil
}

// KnownElement reports whether key names an element of the bundled Table B subset.
func KnownElement(key string) bool {
	_, ok := elementsByKey[key]
	return ok
}

// InRange reports whether v lies inside the descriptor's physical validity range.
func (d Descriptor) InRange(v float64) bool {
	return v >= d.Min && v <= d.Max
}
