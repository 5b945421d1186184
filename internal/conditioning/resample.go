package conditioning

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Intergalactyc/WindProfiles/internal/log"
	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
	"github.com/Intergalactyc/WindProfiles/pkg/polar"
)

// ResampleParams configures aggregation onto a fixed time grid. Heights
// lists the heightIds carrying ws/wd channel pairs; their directions are
// aggregated by vector mean, never by averaging angle values. With PTI
// set, pti_<h> columns are added as the bucket standard deviation of
// speed divided by the raw (pre-vector-averaging) mean speed at
// TurbulenceReference, or at the local height when that is empty.
type ResampleParams struct {
	Window              time.Duration
	Method              string // "mean" (default) or "median"
	Heights             []string
	PTI                 bool
	TurbulenceReference string
}

// ResampleReport carries the size-reduction diagnostics.
type ResampleReport struct {
	RowsBefore        int
	Buckets           int
	DroppedAllMissing int
	DegeneratePTI     int
}

// Resample buckets the series into fixed-width non-overlapping windows.
// Linear channels aggregate by arithmetic mean or median; directional
// channels by converting to vectors at native resolution, averaging, and
// converting back. Each bucket retains the maximum observed speed
// (maxws_<h>) for gust estimation. Buckets with zero contributing
// samples across all channels are dropped. Flag columns aggregate by
// any-set.
func Resample(ds *timeseries.Dataset, p ResampleParams) (*timeseries.Dataset, ResampleReport, error) {
	method := p.Method
	if method == "" {
		method = "mean"
	}
	if method != "mean" && method != "median" {
		return nil, ResampleReport{}, fmt.Errorf("conditioning: unrecognized resampling method %q", method)
	}
	if p.PTI && p.TurbulenceReference != "" {
		found := false
		for _, h := range p.Heights {
			if h == p.TurbulenceReference {
				found = true
			}
		}
		if !found {
			return nil, ResampleReport{}, fmt.Errorf("conditioning: unrecognized turbulence reference height %q", p.TurbulenceReference)
		}
	}

	// Every listed height must carry its ws/wd channel pair.
	for _, h := range p.Heights {
		if _, err := ds.MustColumn(timeseries.ColumnName(timeseries.FamilySpeed, h)); err != nil {
			return nil, ResampleReport{}, err
		}
		if _, err := ds.MustColumn(timeseries.ColumnName(timeseries.FamilyDirection, h)); err != nil {
			return nil, ResampleReport{}, err
		}
	}

	report := ResampleReport{RowsBefore: ds.Len()}

	// Bucket rows by truncated timestamp, preserving time order.
	times := ds.Times()
	type bucket struct {
		start time.Time
		rows  []int
	}
	var buckets []bucket
	index := make(map[int64]int)
	for i, ts := range times {
		key := ts.Truncate(p.Window)
		if bi, ok := index[key.UnixNano()]; ok {
			buckets[bi].rows = append(buckets[bi].rows, i)
			continue
		}
		index[key.UnixNano()] = len(buckets)
		buckets = append(buckets, bucket{start: key, rows: []int{i}})
	}
	sort.Slice(buckets, func(a, b int) bool { return buckets[a].start.Before(buckets[b].start) })
	report.Buckets = len(buckets)

	starts := make([]time.Time, len(buckets))
	for i, b := range buckets {
		starts[i] = b.start
	}
	out := timeseries.New(starts)

	directional := make(map[string]string) // wd column -> heightID
	for _, h := range p.Heights {
		directional[timeseries.ColumnName(timeseries.FamilyDirection, h)] = h
	}

	// Aggregate every value column; remember raw speed means and stds
	// for the auxiliary metrics.
	rawSpeedMean := make(map[string][]float64)
	rawSpeedStd := make(map[string][]float64)
	allMissing := make([]bool, len(buckets))
	for i := range allMissing {
		allMissing[i] = true
	}

	for _, name := range ds.Columns() {
		col, _ := ds.Column(name)
		family, heightID, parsed := timeseries.ParseColumn(name)

		agg := make([]float64, len(buckets))
		if _, isDir := directional[name]; isDir {
			wsCol, _ := ds.Column(timeseries.ColumnName(timeseries.FamilySpeed, heightID))
			for bi, b := range buckets {
				_, agg[bi] = vectorMean(wsCol, col, b.rows)
			}
		} else {
			for bi, b := range buckets {
				agg[bi] = aggregate(col, b.rows, method)
			}
		}
		for bi := range buckets {
			if !math.IsNaN(agg[bi]) {
				allMissing[bi] = false
			}
		}
		out.SetColumn(name, agg)

		if parsed && family == timeseries.FamilySpeed && heightInList(heightID, p.Heights) {
			means := make([]float64, len(buckets))
			stds := make([]float64, len(buckets))
			maxs := make([]float64, len(buckets))
			for bi, b := range buckets {
				means[bi] = aggregate(col, b.rows, "mean")
				stds[bi] = bucketStd(col, b.rows)
				maxs[bi] = bucketMax(col, b.rows)
			}
			rawSpeedMean[heightID] = means
			rawSpeedStd[heightID] = stds
			out.SetColumn("maxws_"+heightID, maxs)
		}
	}

	// Replace each listed height's speed with the vector-mean magnitude
	// so speed and direction stay a consistent pair.
	for _, h := range p.Heights {
		wsName := timeseries.ColumnName(timeseries.FamilySpeed, h)
		wsCol, _ := ds.Column(wsName)
		wdCol, _ := ds.Column(timeseries.ColumnName(timeseries.FamilyDirection, h))
		vec := make([]float64, len(buckets))
		for bi, b := range buckets {
			vec[bi], _ = vectorMean(wsCol, wdCol, b.rows)
		}
		out.SetColumn(wsName, vec)
	}

	if p.PTI {
		for _, h := range p.Heights {
			stds, ok := rawSpeedStd[h]
			if !ok {
				continue
			}
			ref := h
			if p.TurbulenceReference != "" {
				ref = p.TurbulenceReference
			}
			refMeans := rawSpeedMean[ref]
			pti := make([]float64, len(buckets))
			for bi := range buckets {
				pti[bi] = stds[bi] / refMeans[bi]
				if !isFinite(pti[bi]) {
					pti[bi] = math.NaN()
					report.DegeneratePTI++
				}
			}
			out.SetColumn("pti_"+h, pti)
		}
	}

	for _, name := range ds.FlagColumns() {
		col, _ := ds.Flag(name)
		agg := make([]bool, len(buckets))
		for bi, b := range buckets {
			for _, r := range b.rows {
				if col[r] {
					agg[bi] = true
					break
				}
			}
		}
		out.SetFlag(name, agg)
	}

	keep := make([]int, 0, len(buckets))
	for bi := range buckets {
		if allMissing[bi] {
			report.DroppedAllMissing++
		} else {
			keep = append(keep, bi)
		}
	}
	out = out.Select(keep)

	log.Infof("resampling into %v intervals (%ss) complete: %d rows -> %d buckets, %d all-missing buckets dropped",
		p.Window, method, report.RowsBefore, report.Buckets, report.DroppedAllMissing)
	if report.DegeneratePTI > 0 {
		log.Warnf("%d pseudo-TI values degenerate (zero or missing reference mean speed)", report.DegeneratePTI)
	}
	return out, report, nil
}

// vectorMean averages the rows' wind readings through their Cartesian
// components, returning the polar mean. NaN if no row contributes.
func vectorMean(speeds, directions []float64, rows []int) (speed, direction float64) {
	var uSum, vSum float64
	var n int
	for _, r := range rows {
		u, v := polar.WindComponents(speeds[r], directions[r])
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
	return polar.PolarWind(uSum/float64(n), vSum/float64(n))
}

// aggregate computes the NaN-skipping mean or median of the rows' values.
func aggregate(col []float64, rows []int, method string) float64 {
	vals := presentValues(col, rows)
	if len(vals) == 0 {
		return math.NaN()
	}
	if method == "median" {
		sort.Float64s(vals)
		mid := len(vals) / 2
		if len(vals)%2 == 1 {
			return vals[mid]
		}
		return (vals[mid-1] + vals[mid]) / 2
	}
	return stat.Mean(vals, nil)
}

// bucketStd is the sample standard deviation of the rows' present
// values; NaN when fewer than two are present.
func bucketStd(col []float64, rows []int) float64 {
	vals := presentValues(col, rows)
	if len(vals) < 2 {
		return math.NaN()
	}
	return stat.StdDev(vals, nil)
}

func bucketMax(col []float64, rows []int) float64 {
	vals := presentValues(col, rows)
	if len(vals) == 0 {
		return math.NaN()
	}
	max := vals[0]
	for _, v := range vals[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func presentValues(col []float64, rows []int) []float64 {
	vals := make([]float64, 0, len(rows))
	for _, r := range rows {
		if !math.IsNaN(col[r]) {
			vals = append(vals, col[r])
		}
	}
	return vals
}

func heightInList(h string, list []string) bool {
	for _, x := range list {
		if x == h {
			return true
		}
	}
	return false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
