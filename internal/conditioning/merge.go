package conditioning

import (
	"math"

	"github.com/Intergalactyc/WindProfiles/internal/log"
	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
	"github.com/Intergalactyc/WindProfiles/pkg/polar"
)

// MergeGroup describes a set of co-located wind sensors to fuse into a
// single reading. Speeds and Directions name the per-sensor columns,
// Angles gives each sensor's shadow center in degrees, and Width is the
// full shadow sector width shared by all sensors in the group. The
// merged reading is written to ws_<Target> and wd_<Target>.
type MergeGroup struct {
	Speeds     []string
	Directions []string
	Angles     []float64
	Width      float64
	Target     string
	DropOld    bool
}

// MergeReport counts, per sensor, the timestamps excluded for being
// inside that sensor's shadow sector.
type MergeReport struct {
	Shadowed []int
}

// ShadowingMerge fuses the group's sensors at every timestamp. A sensor
// whose reported direction lies within Width/2 of its own shadow center
// is excluded from the average at that timestamp, not zeroed. The
// survivors are vector averaged; if every sensor is shadowed the merged
// reading is undefined.
func ShadowingMerge(ds *timeseries.Dataset, g MergeGroup) (*timeseries.Dataset, MergeReport, error) {
	if len(g.Speeds) != len(g.Directions) || len(g.Speeds) != len(g.Angles) {
		return nil, MergeReport{}, &ShapeMismatchError{
			Speeds:     len(g.Speeds),
			Directions: len(g.Directions),
			Angles:     len(g.Angles),
		}
	}

	nSensors := len(g.Speeds)
	radius := g.Width / 2

	speedCols := make([][]float64, nSensors)
	dirCols := make([][]float64, nSensors)
	for i := 0; i < nSensors; i++ {
		var err error
		if speedCols[i], err = ds.MustColumn(g.Speeds[i]); err != nil {
			return nil, MergeReport{}, err
		}
		if dirCols[i], err = ds.MustColumn(g.Directions[i]); err != nil {
			return nil, MergeReport{}, err
		}
	}

	n := ds.Len()
	mergedWS := make([]float64, n)
	mergedWD := make([]float64, n)
	shadowed := make([]int, nSensors)

	for row := 0; row < n; row++ {
		var uSum, vSum float64
		var valid int
		for i := 0; i < nSensors; i++ {
			dir := dirCols[i][row]
			if polar.AngularDistance(dir, g.Angles[i]) <= radius {
				shadowed[i]++
				continue
			}
			u, v := polar.WindComponents(speedCols[i][row], dir)
			if math.IsNaN(u) || math.IsNaN(v) {
				continue
			}
			uSum += u
			vSum += v
			valid++
		}
		if valid == 0 {
			mergedWS[row] = math.NaN()
			mergedWD[row] = math.NaN()
			continue
		}
		mergedWS[row], mergedWD[row] = polar.PolarWind(uSum/float64(valid), vSum/float64(valid))
	}

	out := ds.Clone()
	if g.DropOld {
		for i := 0; i < nSensors; i++ {
			out.DropColumn(g.Speeds[i])
			out.DropColumn(g.Directions[i])
		}
	}
	out.SetColumn(timeseries.ColumnName(timeseries.FamilySpeed, g.Target), mergedWS)
	out.SetColumn(timeseries.ColumnName(timeseries.FamilyDirection, g.Target), mergedWD)

	log.Infow("shadowing merge completed", "target", g.Target, "shadowed_by_sensor", shadowed)
	return out, MergeReport{Shadowed: shadowed}, nil
}
