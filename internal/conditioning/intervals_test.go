package conditioning

import (
	"math"
	"testing"
	"time"
)

func TestRemoveIntervalsFullRows(t *testing.T) {
	ds := testDataset(map[string][]float64{
		"ws_10m": {1, 2, 3, 4, 5},
	})
	base := ds.Time(0)

	// Bounds are inclusive: minutes 1 through 3 go, leaving rows 0 and 4.
	out, report := RemoveIntervals(ds, []RemovalPeriod{{
		Start: base.Add(time.Minute),
		End:   base.Add(3 * time.Minute),
	}})

	if out.Len() != 2 {
		t.Fatalf("rows = %d, want 2", out.Len())
	}
	if report.Total != 3 {
		t.Errorf("Total = %d, want 3", report.Total)
	}
	col, _ := out.Column("ws_10m")
	if col[0] != 1 || col[1] != 5 {
		t.Errorf("surviving values = %v, want [1 5]", col)
	}
}

func TestRemoveIntervalsPartialNullsChannels(t *testing.T) {
	ds := testDataset(map[string][]float64{
		"ws_10m":  {1, 2, 3},
		"t_10m":   {280, 281, 282},
		"ws_106m": {7, 8, 9},
	})
	base := ds.Time(0)

	out, report := RemoveIntervals(ds, []RemovalPeriod{{
		Start:   base.Add(time.Minute),
		End:     base.Add(time.Minute),
		Heights: []string{"10m"},
	}})

	if out.Len() != 3 {
		t.Fatalf("rows = %d, want 3 (partial removal keeps rows)", out.Len())
	}
	if report.Partial != 1 || report.Total != 0 {
		t.Errorf("report = %+v, want Partial=1 Total=0", report)
	}
	ws10, _ := out.Column("ws_10m")
	t10, _ := out.Column("t_10m")
	ws106, _ := out.Column("ws_106m")
	if !math.IsNaN(ws10[1]) || !math.IsNaN(t10[1]) {
		t.Error("10m channels not nulled inside the period")
	}
	if math.IsNaN(ws106[1]) {
		t.Error("106m channel nulled by a 10m-only period")
	}
	if math.IsNaN(ws10[0]) || math.IsNaN(ws10[2]) {
		t.Error("rows outside the period were touched")
	}
}

func TestRemoveIntervalsOverlapCountsOnce(t *testing.T) {
	ds := testDataset(map[string][]float64{"ws_10m": {1, 2, 3}})
	base := ds.Time(0)

	periods := []RemovalPeriod{
		{Start: base, End: base.Add(time.Minute)},
		{Start: base.Add(time.Minute), End: base.Add(2 * time.Minute)},
	}
	out, report := RemoveIntervals(ds, periods)
	if out.Len() != 0 {
		t.Fatalf("rows = %d, want 0", out.Len())
	}
	if report.Total != 3 {
		t.Errorf("Total = %d, want 3 (overlapping rows counted once)", report.Total)
	}
}
