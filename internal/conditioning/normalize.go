package conditioning

import (
	"math"
	"sort"
	"time"

	"github.com/Intergalactyc/WindProfiles/internal/log"
	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
)

// CleanFormatting enforces the dataset's formatting invariants: any
// record whose wind speed is exactly zero has its paired direction set
// undefined, all value columns are clamped to float32 precision,
// duplicate timestamps are removed keeping the first occurrence, and
// rows are sorted ascending by time.
func CleanFormatting(ds *timeseries.Dataset) *timeseries.Dataset {
	work := ds.Clone()

	for _, name := range work.Columns() {
		col, _ := work.Column(name)
		for i, v := range col {
			col[i] = float64(float32(v))
		}

		family, heightID, ok := timeseries.ParseColumn(name)
		if !ok || family != timeseries.FamilySpeed {
			continue
		}
		dirCol, found := work.Column(timeseries.ColumnName(timeseries.FamilyDirection, heightID))
		if !found {
			log.Warnf("no direction column paired with %s", name)
			continue
		}
		for i, v := range col {
			if v == 0 {
				dirCol[i] = math.NaN()
			}
		}
	}

	// Stable sort by time, then keep the first of each duplicate stamp.
	n := work.Len()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	times := work.Times()
	sort.SliceStable(order, func(a, b int) bool {
		return times[order[a]].Before(times[order[b]])
	})

	keep := make([]int, 0, n)
	var prev time.Time
	for i, r := range order {
		if i > 0 && times[r].Equal(prev) {
			continue
		}
		keep = append(keep, r)
		prev = times[r]
	}

	out := work.Select(keep)
	if dropped := n - out.Len(); dropped > 0 {
		log.Infof("formatting cleanup dropped %d duplicate timestamps", dropped)
	}
	return out
}

// ConvertTimezone re-expresses the time index in the target location.
// The instants themselves are unchanged; interval-based removal must
// already have run, since its bounds are given in the source timezone.
func ConvertTimezone(ds *timeseries.Dataset, target *time.Location) *timeseries.Dataset {
	out := ds.Clone()
	times := out.Times()
	for i := range times {
		times[i] = times[i].In(target)
	}
	return out
}
