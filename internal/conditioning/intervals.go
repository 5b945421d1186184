package conditioning

import (
	"math"
	"time"

	"github.com/Intergalactyc/WindProfiles/internal/log"
	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
)

// removableFamilies are the per-height channels nulled by a partial
// interval removal.
var removableFamilies = []string{"p", "ws", "wd", "t", "rh"}

// RemovalPeriod is a maintenance or bad-data window, bounds inclusive,
// expressed in the source timezone. An empty Heights list means the
// whole row is dropped ("ALL"); otherwise only the channels at the
// listed heights are nulled and the row survives.
type RemovalPeriod struct {
	Start   time.Time
	End     time.Time
	Heights []string
}

// All reports whether the period removes entire rows.
func (p RemovalPeriod) All() bool { return len(p.Heights) == 0 }

// RemovalReport separates full-row removals from partial (per-channel)
// removals.
type RemovalReport struct {
	Total   int
	Partial int
}

// RemoveIntervals applies the configured removal periods. It must run
// before timezone conversion, since period bounds are expressed in the
// source timezone.
func RemoveIntervals(ds *timeseries.Dataset, periods []RemovalPeriod) (*timeseries.Dataset, RemovalReport) {
	out := ds.Clone()
	var report RemovalReport

	dropRow := make([]bool, out.Len())
	times := out.Times()

	for _, period := range periods {
		for i, ts := range times {
			if ts.Before(period.Start) || ts.After(period.End) {
				continue
			}
			if period.All() {
				if !dropRow[i] {
					dropRow[i] = true
					report.Total++
				}
				continue
			}
			for _, h := range period.Heights {
				for _, family := range removableFamilies {
					if col, ok := out.Column(timeseries.ColumnName(family, h)); ok {
						col[i] = math.NaN()
					}
				}
			}
			report.Partial++
		}
	}

	keep := make([]int, 0, out.Len())
	for i := range dropRow {
		if !dropRow[i] {
			keep = append(keep, i)
		}
	}
	out = out.Select(keep)

	log.Infow("interval data removal completed",
		"total_removals", report.Total, "partial_removals", report.Partial)
	return out, report
}
