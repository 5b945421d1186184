// Package polar provides vector math for wind quantities expressed in
// polar form (speed + direction in degrees clockwise of north).
//
// Directions are angles, not linear quantities: averaging 350° and 10°
// must yield 0°, never 180°. Every averaging operation in this package
// therefore goes through the Cartesian (east, north) decomposition.
package polar

import "math"

// WindComponents converts a wind speed and a direction in degrees CW of
// north into (u, v) east/north components.
//
// A speed of exactly zero yields (0, 0) even when the direction is NaN:
// calm air has a well-defined zero vector regardless of the (undefined)
// direction paired with it.
func WindComponents(speed, direction float64) (u, v float64) {
	if speed == 0 {
		return 0, 0
	}
	rad := direction * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return speed * sin, speed * cos
}

// PolarWind converts (u, v) east/north components back to a speed and a
// direction in degrees CW of north, normalized to [0, 360).
func PolarWind(u, v float64) (speed, direction float64) {
	speed = math.Hypot(u, v)
	direction = math.Mod(math.Atan2(u, v)*180/math.Pi+360, 360)
	return speed, direction
}

// PolarAverage computes the true vector average of a set of readings
// given in polar form, returning the result in polar form.
//
// Entries whose magnitude or direction is NaN are skipped. If no entry
// is usable the result is (NaN, NaN).
func PolarAverage(magnitudes, directions []float64) (speed, direction float64) {
	var uSum, vSum float64
	var n int
	for i := range magnitudes {
		if math.IsNaN(magnitudes[i]) {
			continue
		}
		u, v := WindComponents(magnitudes[i], directions[i])
		if math.IsNaN(u) || math.IsNaN(v) {
			continue
		}
		uSum += u
		vSum += v
		n++
	}
	if n == 0 {
		return math.NaN(), math.NaN()
	}
	return PolarWind(uSum/float64(n), vSum/float64(n))
}

// UnitAverageDirection computes the unit-vector average of a set of
// directions, ignoring magnitudes.
func UnitAverageDirection(directions []float64) float64 {
	ones := make([]float64, len(directions))
	for i := range ones {
		ones[i] = 1
	}
	_, direction := PolarAverage(ones, directions)
	return direction
}

// AngularDistance returns the minimal angle in degrees between two
// directions, in [0, 180].
func AngularDistance(theta, phi float64) float64 {
	d := math.Mod(theta-phi, 360)
	if d < 0 {
		d += 360
	}
	return math.Min(360-d, d)
}
