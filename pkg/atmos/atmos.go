// Package atmos implements the boundary-layer thermodynamic and wind
// profile formulas used by the conditioning pipeline.
//
// All temperatures are in K, pressures in kPa, relative humidity as a
// fraction in [0, 1], wind speeds in m/s, and directions in degrees CW
// of north. Any computation whose inputs are present but degenerate
// (zero shear, too few profile levels) returns NaN rather than failing.
package atmos

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/Intergalactyc/WindProfiles/pkg/polar"
)

const (
	// StandardGravity is the standard gravitational acceleration in m/s².
	StandardGravity = 9.80665

	// ReferencePressure is the potential-temperature reference in kPa.
	ReferencePressure = 100.0

	// WaterAirMWR is the water:air molecular weight ratio.
	WaterAirMWR = 0.622

	// RCp is the gas constant of dry air divided by its specific heat
	// capacity at constant pressure.
	RCp = 0.286

	// dry-air gas constant and standard temperature for the isothermal
	// barometric height adjustment
	dryAirGasConstant   = 287.05  // J/(kg·K)
	standardTemperature = 288.15  // K
)

// SaturationVaporPressure returns the saturation vapor pressure in kPa
// for a temperature in K, using Tetens' approximation.
func SaturationVaporPressure(temperature float64) float64 {
	return 0.6113 * math.Exp(17.2694*(temperature-273.15)/(temperature-35.86))
}

// WaterAirMixingRatio returns the dimensionless water:air mixing ratio
// given an actual vapor pressure and a barometric pressure in the same
// units.
func WaterAirMixingRatio(actualVaporPressure, barometricPressure float64) float64 {
	return WaterAirMWR * actualVaporPressure / (barometricPressure - actualVaporPressure)
}

// VirtualTemperature returns the virtual temperature in K from a
// temperature in K and a barometric pressure in kPa.
func VirtualTemperature(temperature, barometricPressure float64) float64 {
	return temperature * math.Pow(ReferencePressure/barometricPressure, RCp)
}

// VirtualPotentialTemperature returns the virtual potential temperature
// in K from a virtual temperature in K and a dimensionless mixing ratio,
// using the exact (not first-order) moisture correction.
func VirtualPotentialTemperature(virtualTemperature, mixingRatio float64) float64 {
	return virtualTemperature * (1 + (mixingRatio/WaterAirMWR)/(1+mixingRatio))
}

// VirtualPotentialTemperatureApprox is the first-order approximation of
// VirtualPotentialTemperature, valid within ~1% for mixing ratios up to
// roughly 0.20.
func VirtualPotentialTemperatureApprox(virtualTemperature, mixingRatio float64) float64 {
	return virtualTemperature * (1 + 0.61*mixingRatio)
}

// VPTFrom3 computes the virtual potential temperature in K directly from
// relative humidity in [0,1], barometric pressure in kPa, and temperature
// in K.
func VPTFrom3(relativeHumidity, barometricPressure, temperature float64) float64 {
	svp := SaturationVaporPressure(temperature)
	avp := relativeHumidity * svp
	w := WaterAirMixingRatio(avp, barometricPressure)
	vt := VirtualTemperature(temperature, barometricPressure)
	return VirtualPotentialTemperature(vt, w)
}

// PressureAboveMSL converts a sea-level pressure to the pressure at the
// given height in meters above sea level, using the isothermal
// barometric relation at the standard temperature.
func PressureAboveMSL(seaLevelPressure, metersASL, gravity float64) float64 {
	return seaLevelPressure * math.Exp(-gravity*metersASL/(dryAirGasConstant*standardTemperature))
}

// BulkRichardsonNumber computes Ri_bulk between two heights from the
// virtual potential temperatures, heights in meters, and wind speed and
// direction at each level.
//
// Returns NaN when the wind shear between the two levels is exactly
// zero; buoyancy with no shear has no defined ratio.
func BulkRichardsonNumber(vptLower, vptUpper, heightLower, heightUpper,
	wsLower, wsUpper, wdLower, wdUpper, gravity float64) float64 {

	deltaVPT := vptUpper - vptLower
	deltaZ := heightUpper - heightLower

	uLower, vLower := polar.WindComponents(wsLower, wdLower)
	uUpper, vUpper := polar.WindComponents(wsUpper, wdUpper)

	deltaU := uUpper - uLower
	deltaV := vUpper - vLower

	shearTerm := deltaU*deltaU + deltaV*deltaV
	if shearTerm == 0 {
		return math.NaN()
	}

	vptAvg := (vptUpper + vptLower) / 2

	return gravity * deltaVPT * deltaZ / (vptAvg * shearTerm)
}

// PowerLawFit fits speed(height) = A·height^alpha across profile levels
// by least squares in log-log space, returning the multiplicative
// coefficient A and the exponent alpha.
//
// Levels with a NaN or non-positive speed are excluded. If fewer than
// require levels remain the fit is undefined and (NaN, NaN) is returned.
func PowerLawFit(heights, speeds []float64, require int) (a, alpha float64) {
	logH := make([]float64, 0, len(heights))
	logS := make([]float64, 0, len(speeds))
	for i := range heights {
		if math.IsNaN(speeds[i]) || speeds[i] <= 0 {
			continue
		}
		logH = append(logH, math.Log(heights[i]))
		logS = append(logS, math.Log(speeds[i]))
	}
	if len(logH) < require {
		return math.NaN(), math.NaN()
	}
	intercept, slope := stat.LinearRegression(logH, logS, nil, false)
	return math.Exp(intercept), slope
}
