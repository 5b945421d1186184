// Package conditioning implements the time-series conditioning stages:
// unit standardization, shadow-aware sensor fusion, format
// normalization, interval removal, rolling outlier rejection,
// circular-mean resampling, missing-data stripping, and weather-event
// tagging. Every stage consumes one immutable Dataset snapshot and
// returns a new one.
package conditioning

import (
	"math"
	"strconv"
	"strings"

	"github.com/Intergalactyc/WindProfiles/internal/log"
	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
	"github.com/Intergalactyc/WindProfiles/pkg/atmos"
)

// StandardizeUnits converts every recognized <family>_<heightId> channel
// to the standard unit set. The standard is validated once on entry; an
// inconsistent standard is a programming error, not data trouble.
//
// Families routed to the speed conversion include the Cartesian
// component channels (u/v/w and the sonic ux/uy/uz variants); ts
// (sonic temperature) shares the temperature conversion.
func StandardizeUnits(ds *timeseries.Dataset, units Units, gravity float64, std Standard) (*timeseries.Dataset, error) {
	if err := std.Validate(); err != nil {
		return nil, err
	}

	out := ds.Clone()
	for _, name := range out.Columns() {
		family, _, ok := timeseries.ParseColumn(name)
		if !ok {
			continue
		}
		col, _ := out.Column(name)

		var err error
		switch family {
		case "p":
			err = convertPressure(col, units.Pressure, gravity)
		case "t", "ts":
			err = convertTemperature(col, units.Temperature)
		case "rh":
			err = convertHumidity(col, units.Humidity)
		case "ws", "u", "v", "w", "ux", "uy", "uz":
			err = convertSpeed(col, units.Speed)
		case "wd":
			err = convertDirection(col, units.Direction)
		}
		if err != nil {
			return nil, err
		}
	}

	log.Debugf("unit standardization completed across %d columns", len(out.Columns()))
	return out, nil
}

// convertPressure converts a pressure column to kPa in place. A unit of
// the form "<unit>_<h>asl" is interpreted as sea-level pressure to be
// adjusted to a height of <h> meters before the unit conversion.
func convertPressure(col []float64, fromUnit string, gravity float64) error {
	if i := strings.Index(fromUnit, "_"); i >= 0 {
		suffix := fromUnit[i+1:]
		fromUnit = fromUnit[:i]
		if !strings.HasSuffix(suffix, "asl") {
			return &UnknownUnitError{Family: "pressure", Unit: fromUnit + "_" + suffix}
		}
		metersASL, err := strconv.ParseFloat(strings.TrimSuffix(suffix, "asl"), 64)
		if err != nil {
			return &UnknownUnitError{Family: "pressure", Unit: fromUnit + "_" + suffix}
		}
		for j, v := range col {
			col[j] = atmos.PressureAboveMSL(v, metersASL, gravity)
		}
	}

	var factor float64
	switch fromUnit {
	case "kPa":
		return nil
	case "mmHg":
		factor = 0.13332239
	case "inHg":
		factor = 3.38639
	case "mBar":
		factor = 0.1
	default:
		return &UnknownUnitError{Family: "pressure", Unit: fromUnit}
	}
	for j, v := range col {
		col[j] = v * factor
	}
	return nil
}

func convertTemperature(col []float64, fromUnit string) error {
	switch fromUnit {
	case "K":
		return nil
	case "C":
		for j, v := range col {
			col[j] = v + 273.15
		}
	case "F":
		for j, v := range col {
			col[j] = (v-32)*5/9 + 273.15
		}
	default:
		return &UnknownUnitError{Family: "temperature", Unit: fromUnit}
	}
	return nil
}

func convertHumidity(col []float64, fromUnit string) error {
	switch fromUnit {
	case "decimal", ".":
		return nil
	case "%", "percent":
		for j, v := range col {
			col[j] = v / 100
		}
	default:
		return &UnknownUnitError{Family: "humidity", Unit: fromUnit}
	}
	return nil
}

func convertSpeed(col []float64, fromUnit string) error {
	switch fromUnit {
	case "m/s":
		return nil
	case "mph", "mi/hr", "mi/h":
		for j, v := range col {
			col[j] = v / 2.23694
		}
	default:
		return &UnknownUnitError{Family: "speed", Unit: fromUnit}
	}
	return nil
}

// convertDirection composes the three independent direction transforms:
// angle measure to degrees, orientation to clockwise, and zero
// reference to north, each via modular arithmetic.
func convertDirection(col []float64, from DirectionUnit) error {
	switch strings.ToLower(from.Measure) {
	case "rad", "radians":
		for j, v := range col {
			col[j] = v * 180 / math.Pi
		}
	case "deg", "degrees":
	default:
		return &UnknownUnitError{Family: "direction measure", Unit: from.Measure}
	}

	switch strings.ToLower(from.Orientation) {
	case "ccw", "counterclockwise":
		for j, v := range col {
			col[j] = mod360(-v)
		}
	case "cw", "clockwise":
	default:
		return &UnknownUnitError{Family: "direction orientation", Unit: from.Orientation}
	}

	var offset float64
	switch strings.ToLower(from.Zero) {
	case "n":
		offset = 0
	case "w":
		offset = 90
	case "s":
		offset = 180
	case "e":
		offset = 270
	default:
		numeric, err := strconv.ParseFloat(from.Zero, 64)
		if err != nil {
			return &UnknownUnitError{Family: "direction zero", Unit: from.Zero}
		}
		offset = numeric
	}
	if offset != 0 {
		for j, v := range col {
			col[j] = mod360(v - offset)
		}
	}
	return nil
}

// mod360 normalizes an angle to [0, 360), propagating NaN.
func mod360(v float64) float64 {
	m := math.Mod(v, 360)
	if m < 0 {
		m += 360
	}
	return m
}
