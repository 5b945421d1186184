// Package derive computes the atmospheric-physics columns from a
// conditioned dataset: virtual potential temperature, lapse rate, bulk
// Richardson number, power-law profile fits, gust factors, and
// turbulence-intensity estimates. All derivations degrade to NaN once
// their inputs are present; only configuration errors fail fast.
package derive

import (
	"fmt"
	"math"

	"github.com/Intergalactyc/WindProfiles/internal/log"
	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
	"github.com/Intergalactyc/WindProfiles/pkg/atmos"
)

// InvalidHeightsError reports a height pair unusable for a two-level
// derivation: not exactly two heights, or two equal ones.
type InvalidHeightsError struct {
	Heights []int
}

func (e *InvalidHeightsError) Error() string {
	return fmt.Sprintf("derive: invalid heights %v (need exactly two distinct heights)", e.Heights)
}

// InsufficientDataError reports fewer profile levels than the caller's
// hard minimum for a power-law fit.
type InsufficientDataError struct {
	Required  int
	Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("derive: %d heights provided, power-law fit requires at least %d", e.Available, e.Required)
}

// VirtualPotentialTemperatures computes vpt_<h>m at every given height
// from the rh/p/t channels there. Substitutions reroute an input column
// (e.g. a height with no barometer borrowing a neighbor's pressure).
func VirtualPotentialTemperatures(ds *timeseries.Dataset, heights []int, substitutions map[string]string) (*timeseries.Dataset, error) {
	out := ds.Clone()
	for _, h := range heights {
		rh, err := out.MustColumn(substituted(timeseries.HeightColumn("rh", h), substitutions))
		if err != nil {
			return nil, err
		}
		p, err := out.MustColumn(substituted(timeseries.HeightColumn("p", h), substitutions))
		if err != nil {
			return nil, err
		}
		t, err := out.MustColumn(substituted(timeseries.HeightColumn("t", h), substitutions))
		if err != nil {
			return nil, err
		}

		vpt := make([]float64, out.Len())
		for i := range vpt {
			vpt[i] = atmos.VPTFrom3(rh[i], p[i], t[i])
		}
		out.SetColumn(timeseries.HeightColumn("vpt", h), vpt)
		log.Debugf("virtual potential temperature computed at %dm", h)
	}
	return out, nil
}

func substituted(name string, substitutions map[string]string) string {
	if sub, ok := substitutions[name]; ok {
		return sub
	}
	return name
}

// EnvironmentalLapseRate adds <variable>_lapse, the change of the
// variable per meter between exactly two distinct heights.
func EnvironmentalLapseRate(ds *timeseries.Dataset, variable string, heights []int) (*timeseries.Dataset, error) {
	if len(heights) != 2 || heights[0] == heights[1] {
		return nil, &InvalidHeightsError{Heights: heights}
	}
	lower, upper := orderPair(heights[0], heights[1])

	lowerCol, err := ds.MustColumn(timeseries.HeightColumn(variable, lower))
	if err != nil {
		return nil, err
	}
	upperCol, err := ds.MustColumn(timeseries.HeightColumn(variable, upper))
	if err != nil {
		return nil, err
	}

	out := ds.Clone()
	lapse := make([]float64, out.Len())
	dz := float64(upper - lower)
	for i := range lapse {
		lapse[i] = (upperCol[i] - lowerCol[i]) / dz
	}
	out.SetColumn(variable+"_lapse", lapse)
	log.Debugf("lapse rate of %s computed between %dm and %dm", variable, lower, upper)
	return out, nil
}

// BulkRichardsonNumber adds the Ri_bulk column from the vpt and wind
// channels at exactly two distinct heights. Rows with zero wind shear
// between the levels are NaN, never an error.
func BulkRichardsonNumber(ds *timeseries.Dataset, heights []int, gravity float64) (*timeseries.Dataset, error) {
	if len(heights) != 2 || heights[0] == heights[1] {
		return nil, &InvalidHeightsError{Heights: heights}
	}
	lower, upper := orderPair(heights[0], heights[1])

	cols := make(map[string][]float64, 6)
	for _, name := range []string{
		timeseries.HeightColumn("vpt", lower), timeseries.HeightColumn("vpt", upper),
		timeseries.HeightColumn("ws", lower), timeseries.HeightColumn("ws", upper),
		timeseries.HeightColumn("wd", lower), timeseries.HeightColumn("wd", upper),
	} {
		col, err := ds.MustColumn(name)
		if err != nil {
			return nil, err
		}
		cols[name] = col
	}

	out := ds.Clone()
	ri := make([]float64, out.Len())
	for i := range ri {
		ri[i] = atmos.BulkRichardsonNumber(
			cols[timeseries.HeightColumn("vpt", lower)][i],
			cols[timeseries.HeightColumn("vpt", upper)][i],
			float64(lower), float64(upper),
			cols[timeseries.HeightColumn("ws", lower)][i],
			cols[timeseries.HeightColumn("ws", upper)][i],
			cols[timeseries.HeightColumn("wd", lower)][i],
			cols[timeseries.HeightColumn("wd", upper)][i],
			gravity,
		)
	}
	out.SetColumn("Ri_bulk", ri)
	log.Debugf("bulk Richardson number computed between %dm and %dm", lower, upper)
	return out, nil
}

// PowerLawFits fits speed(height) = A·height^alpha at every timestamp
// across the given heights, writing A to betaColumn and alpha to
// alphaColumn (defaults "beta" and "alpha"). Providing fewer heights
// than minimumPresent is a configuration error; a single timestamp with
// too few valid readings degrades to (NaN, NaN).
func PowerLawFits(ds *timeseries.Dataset, heights []int, minimumPresent int, betaColumn, alphaColumn string) (*timeseries.Dataset, error) {
	if minimumPresent < 2 {
		minimumPresent = 2
	}
	if len(heights) < minimumPresent {
		return nil, &InsufficientDataError{Required: minimumPresent, Available: len(heights)}
	}
	if betaColumn == "" {
		betaColumn = "beta"
	}
	if alphaColumn == "" {
		alphaColumn = "alpha"
	}

	speedCols := make([][]float64, len(heights))
	hs := make([]float64, len(heights))
	for i, h := range heights {
		col, err := ds.MustColumn(timeseries.HeightColumn("ws", h))
		if err != nil {
			return nil, err
		}
		speedCols[i] = col
		hs[i] = float64(h)
	}

	out := ds.Clone()
	as := make([]float64, out.Len())
	alphas := make([]float64, out.Len())
	speeds := make([]float64, len(heights))
	for i := range as {
		for j := range heights {
			speeds[j] = speedCols[j][i]
		}
		as[i], alphas[i] = atmos.PowerLawFit(hs, speeds, minimumPresent)
	}
	out.SetColumn(betaColumn, as)
	out.SetColumn(alphaColumn, alphas)
	log.Debugf("power-law fits computed across heights %v (coefficient %s, exponent %s)",
		heights, betaColumn, alphaColumn)
	return out, nil
}

// GustFactors adds gust_<h>m = maxws/mean speed per height from the
// resampler's retained bucket maxima. A zero mean speed yields an
// undefined ratio (NaN), not an error.
func GustFactors(ds *timeseries.Dataset, heights []int) (*timeseries.Dataset, error) {
	out := ds.Clone()
	for _, h := range heights {
		maxCol, err := out.MustColumn(timeseries.HeightColumn("maxws", h))
		if err != nil {
			return nil, err
		}
		wsCol, err := out.MustColumn(timeseries.HeightColumn("ws", h))
		if err != nil {
			return nil, err
		}
		gust := make([]float64, out.Len())
		for i := range gust {
			if wsCol[i] == 0 {
				gust[i] = math.NaN()
				continue
			}
			gust[i] = maxCol[i] / wsCol[i]
		}
		out.SetColumn(timeseries.HeightColumn("gust", h), gust)
	}
	log.Debugf("gust factors computed at heights %v", heights)
	return out, nil
}

// TICorrection scales the resampler's pseudo-turbulence-intensity
// columns by a sonic-derived correction factor into TI_<h>m estimates.
func TICorrection(ds *timeseries.Dataset, heights []int, factor float64) (*timeseries.Dataset, error) {
	out := ds.Clone()
	for _, h := range heights {
		pti, err := out.MustColumn(timeseries.HeightColumn("pti", h))
		if err != nil {
			return nil, err
		}
		ti := make([]float64, out.Len())
		for i := range ti {
			ti[i] = pti[i] * factor
		}
		out.SetColumn(timeseries.HeightColumn("TI", h), ti)
	}
	log.Debugf("turbulence intensity correction applied at heights %v (factor %.4f)", heights, factor)
	return out, nil
}

// StripFailures drops rows where any of the subset columns is NaN,
// removing timestamps whose necessary derivations failed. Returns the
// number of rows dropped.
func StripFailures(ds *timeseries.Dataset, subset []string) (*timeseries.Dataset, int, error) {
	cols := make([][]float64, 0, len(subset))
	for _, name := range subset {
		col, err := ds.MustColumn(name)
		if err != nil {
			return nil, 0, err
		}
		cols = append(cols, col)
	}

	keep := make([]int, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		ok := true
		for _, col := range cols {
			if math.IsNaN(col[i]) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}

	out := ds.Select(keep)
	removed := ds.Len() - out.Len()
	log.Infof("failure strip removed %d rows, %d remain", removed, out.Len())
	return out, removed, nil
}

func orderPair(a, b int) (lower, upper int) {
	if a < b {
		return a, b
	}
	return b, a
}
