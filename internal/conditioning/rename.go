package conditioning

import (
	"math"

	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
)

// RenameHeaders remaps channel families after a merge. Each entry maps
// a family to its replacement; an empty replacement drops the family's
// columns. With dropOthers set, families absent from the mapper are
// dropped too. Columns left with no present values are always dropped.
func RenameHeaders(ds *timeseries.Dataset, mapper map[string]string, dropOthers bool) *timeseries.Dataset {
	out := ds.Clone()
	for _, name := range out.Columns() {
		family, heightID, ok := timeseries.ParseColumn(name)
		if !ok {
			continue
		}
		replacement, mapped := mapper[family]
		switch {
		case mapped && replacement != "":
			col, _ := out.Column(name)
			out.DropColumn(name)
			out.SetColumn(timeseries.ColumnName(replacement, heightID), col)
		case mapped: // mapped to empty: drop
			out.DropColumn(name)
		case dropOthers:
			out.DropColumn(name)
		}
	}

	for _, name := range out.Columns() {
		col, _ := out.Column(name)
		empty := true
		for _, v := range col {
			if !math.IsNaN(v) {
				empty = false
				break
			}
		}
		if empty {
			out.DropColumn(name)
		}
	}
	return out
}
