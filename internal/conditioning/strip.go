package conditioning

import (
	"math"
	"strings"

	"github.com/Intergalactyc/WindProfiles/internal/log"
	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
)

// StripMissingData drops rows lacking required coverage: a row goes if
// any of the necessary heights is missing its wind-speed reading, or if
// fewer than minimum heights have one present. Returns the surviving
// snapshot and the number of rows removed.
func StripMissingData(ds *timeseries.Dataset, necessary []string, minimum int) (*timeseries.Dataset, int, error) {
	required := make([][]float64, 0, len(necessary))
	for _, h := range necessary {
		col, err := ds.MustColumn(timeseries.ColumnName(timeseries.FamilySpeed, h))
		if err != nil {
			return nil, 0, err
		}
		required = append(required, col)
	}

	var speedCols [][]float64
	for _, name := range ds.Columns() {
		if strings.HasPrefix(name, timeseries.FamilySpeed+"_") {
			col, _ := ds.Column(name)
			speedCols = append(speedCols, col)
		}
	}

	keep := make([]int, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		drop := false
		for _, col := range required {
			if math.IsNaN(col[i]) {
				drop = true
				break
			}
		}
		if !drop {
			present := 0
			for _, col := range speedCols {
				if !math.IsNaN(col[i]) {
					present++
				}
			}
			drop = present < minimum
		}
		if !drop {
			keep = append(keep, i)
		}
	}

	removed := ds.Len() - len(keep)
	out := ds.Select(keep)
	log.Infof("missing-data strip complete: %d rows dropped, %d remain", removed, out.Len())
	return out, removed, nil
}
