package conditioning

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Intergalactyc/WindProfiles/internal/log"
	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
)

// DefaultOutlierFamilies are the linear channel families screened by the
// rolling filter. Direction channels are never screened: an angle has no
// linear mean or standard deviation.
var DefaultOutlierFamilies = []string{"ws", "t", "p", "rh"}

// OutlierParams configures the rolling outlier filter. Window is the
// trailing time window, Sigma the rejection threshold in standard
// deviations. With NullOnly false (the default, conservative policy) a
// row with any flagged channel is dropped entirely; with NullOnly true
// only the flagged channel is nulled and the row survives.
type OutlierParams struct {
	Window   time.Duration
	Sigma    float64
	Families []string
	NullOnly bool
}

// OutlierReport carries the elimination diagnostics: row drops and
// percentage under the drop policy, per-column null counts otherwise.
type OutlierReport struct {
	Dropped  int
	Percent  float64
	ByColumn map[string]int
}

// RollingOutlierRemoval flags points deviating from a trailing rolling
// mean by more than Sigma rolling standard deviations and removes them
// under the configured policy. Channels are processed one at a time;
// under the drop policy each channel is evaluated against the dataset
// already reduced by the preceding channels.
func RollingOutlierRemoval(ds *timeseries.Dataset, p OutlierParams) (*timeseries.Dataset, OutlierReport) {
	families := p.Families
	if len(families) == 0 {
		families = DefaultOutlierFamilies
	}
	inFamilies := make(map[string]bool, len(families))
	for _, f := range families {
		inFamilies[f] = true
	}

	originalRows := ds.Len()
	work := ds.Clone()
	report := OutlierReport{ByColumn: make(map[string]int)}

	for _, name := range work.Columns() {
		family, _, ok := timeseries.ParseColumn(name)
		if !ok || !inFamilies[family] {
			continue
		}

		col, _ := work.Column(name)
		flagged := rollingFlags(work.Times(), col, p.Window, p.Sigma)

		if p.NullOnly {
			for i, f := range flagged {
				if f {
					col[i] = math.NaN()
					report.ByColumn[name]++
				}
			}
			continue
		}

		keep := make([]int, 0, work.Len())
		for i, f := range flagged {
			if f {
				report.Dropped++
			} else {
				keep = append(keep, i)
			}
		}
		if len(keep) < work.Len() {
			work = work.Select(keep)
		}
	}

	if p.NullOnly {
		log.Infow("rolling outlier removal completed", "eliminations_by_column", report.ByColumn)
	} else {
		if originalRows > 0 {
			report.Percent = 100 * float64(report.Dropped) / float64(originalRows)
		}
		log.Infof("rolling outlier removal completed: %d outliers eliminated (%.4f%%)",
			report.Dropped, report.Percent)
	}
	return work, report
}

// rollingFlags marks values deviating from the trailing window mean by
// more than sigma sample standard deviations. The window is left-open:
// it covers (t−window, t] including the current point. Windows with
// fewer than two present values have no defined deviation and flag
// nothing.
func rollingFlags(times []time.Time, col []float64, window time.Duration, sigma float64) []bool {
	flagged := make([]bool, len(col))
	start := 0
	buf := make([]float64, 0, 64)

	for i := range col {
		cutoff := times[i].Add(-window)
		for start < i && !times[start].After(cutoff) {
			start++
		}
		if math.IsNaN(col[i]) {
			continue
		}

		buf = buf[:0]
		for j := start; j <= i; j++ {
			if !math.IsNaN(col[j]) {
				buf = append(buf, col[j])
			}
		}
		if len(buf) < 2 {
			continue
		}

		mean := stat.Mean(buf, nil)
		std := stat.StdDev(buf, nil)
		if math.Abs(col[i]-mean) > sigma*std {
			flagged[i] = true
		}
	}
	return flagged
}
