package bufr

import "fmt"

// Template is a fixed, ordered element sequence for one message class.
// The sequence lists the ecCodes keys of the expanded template in encoding
// order; the assembler emits exactly this sequence, marking unfilled
// elements missing so the layout never desynchronizes.
type Template struct {
	ID       int
	Name     string
	Sequence []string
}

// Synoptic AWS templates. 307080 is the fixed land-station sequence the
// original PROMICE export used; 307090 is the mobile-station variant for
// stations that drift with the ice. Which one applies to a given station is
// a meteorological classification question, so the template id is plain
// configuration here.
var templates = map[int]Template{
	307080: {
		ID:   307080,
		Name: "synopLand",
		Sequence: []string{
			"blockNumber",
			"stationNumber",
			"stationType",
			"year",
			"month",
			"day",
			"hour",
			"minute",
			"latitude",
			"longitude",
			"heightOfStationGroundAboveMeanSeaLevel",
			"heightOfBarometerAboveMeanSeaLevel",
			"pressure",
			"pressureReducedToMeanSeaLevel",
			"heightOfSensorAboveLocalGroundOrDeckOfMarinePlatform",
			"airTemperature",
			"dewpointTemperature",
			"relativeHumidity",
			"horizontalVisibility",
			"cloudCoverTotal",
			"timeSignificance",
			"timePeriod",
			"windDirection",
			"windSpeed",
			"shortWaveRadiationIntegratedOverPeriodSpecified",
			"longWaveRadiationIntegratedOverPeriodSpecified",
		},
	},
	307090: {
		ID:   307090,
		Name: "synopMobile",
		Sequence: []string{
			"blockNumber",
			"stationNumber",
			"stationType",
			"year",
			"month",
			"day",
			"hour",
			"minute",
			"latitude",
			"longitude",
			"heightOfStationGroundAboveMeanSeaLevel",
			"pressure",
			"pressureReducedToMeanSeaLevel",
			"heightOfSensorAboveLocalGroundOrDeckOfMarinePlatform",
			"airTemperature",
			"dewpointTemperature",
			"relativeHumidity",
			"cloudCoverTotal",
			"timeSignificance",
			"timePeriod",
			"windDirection",
			"windSpeed",
			"shortWaveRadiationIntegratedOverPeriodSpecified",
			"longWaveRadiationIntegratedOverPeriodSpecified",
		},
	},
}

// TemplateByID returns a bundled template.
func TemplateByID(id int) (Template, error) {
	t, ok := templates[id]
	if !ok {
		return Template{}, fmt.Errorf("unsupported BUFR template %d", id)
	}
	return t, nil
}

// Contains reports whether the template sequence includes the given key.
func (t Template) Contains(key string) bool {
	for _, k := range t.Sequence {
		if k == key {
			return true
		}
	}
	return false
}
