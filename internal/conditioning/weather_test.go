package conditioning

import (
	"math"
	"testing"
	"time"
)

func TestTagWeatherEventTypes(t *testing.T) {
	ds := testDataset(map[string][]float64{
		"ws_10m": make([]float64, 241),
	})
	base := ds.Time(0)

	events := []StormEvent{
		{Start: base.Add(10 * time.Minute), End: base.Add(20 * time.Minute), Type: "Hail"},
		{Start: base.Add(30 * time.Minute), End: base.Add(40 * time.Minute), Type: "Flash Flood"},
		{Start: base.Add(50 * time.Minute), End: base.Add(60 * time.Minute), Type: "Thunderstorm Wind"},
	}

	out := TagWeather(ds, events, nil, 0)

	hail, _ := out.Flag(FlagHail)
	heavy, _ := out.Flag(FlagHeavyRain)
	storm, _ := out.Flag(FlagStorm)

	if !hail[15] || hail[25] {
		t.Error("hail event not confined to its interval")
	}
	if !heavy[35] {
		t.Error("flash flood not tagged as heavy rain")
	}
	if !storm[55] || storm[45] {
		t.Error("generic event not confined to storm flag interval")
	}
	if storm[15] || hail[55] {
		t.Error("event tagged under the wrong flag")
	}
}

func TestTagWeatherZeroDurationPad(t *testing.T) {
	ds := testDataset(map[string][]float64{
		"ws_10m": make([]float64, 241),
	})
	base := ds.Time(0)
	at := base.Add(2 * time.Hour)

	out := TagWeather(ds, []StormEvent{{Start: at, End: at, Type: "Tornado"}}, nil, 0)
	storm, _ := out.Flag(FlagStorm)

	// 90 minutes on each side: rows 30 through 210 inclusive.
	if !storm[30] || !storm[210] {
		t.Error("padded interval edges not tagged")
	}
	if storm[29] || storm[211] {
		t.Error("tagging bled past the 90-minute pad")
	}
}

func TestTagWeatherPrecipitation(t *testing.T) {
	ds := testDataset(map[string][]float64{
		"ws_10m": make([]float64, 241),
	})
	base := ds.Time(0)

	precip := []PrecipObservation{
		{Time: base.Add(time.Hour), Amount: 1.0},        // light
		{Time: base.Add(3 * time.Hour), Amount: 8.0},    // heavy
		{Time: base.Add(4 * time.Hour), Amount: 0.0001}, // below trace
	}

	out := TagWeather(ds, nil, precip, 0.001)
	light, _ := out.Flag(FlagLightRain)
	heavy, _ := out.Flag(FlagHeavyRain)

	if !light[30] || !light[60] {
		t.Error("light rain window not tagged")
	}
	if light[61] {
		t.Error("light rain tagged past the observation time")
	}
	if !heavy[150] || heavy[119] {
		t.Error("heavy rain window misplaced")
	}
	if light[200] || heavy[200] {
		t.Error("sub-trace observation tagged rain")
	}
}

func TestTagWeatherHeavyClearsLight(t *testing.T) {
	ds := testDataset(map[string][]float64{
		"ws_10m": make([]float64, 241),
	})
	base := ds.Time(0)

	// A light observation tags the window first; a heavy observation
	// over the same window must clear the light flag it set.
	precip := []PrecipObservation{
		{Time: base.Add(2 * time.Hour), Amount: 1.0}, // light on rows 60..120
		{Time: base.Add(2 * time.Hour), Amount: 9.0}, // heavy on the same window
	}

	out := TagWeather(ds, nil, precip, 0)
	light, _ := out.Flag(FlagLightRain)
	heavy, _ := out.Flag(FlagHeavyRain)

	for i := 60; i <= 120; i++ {
		if light[i] {
			t.Fatalf("row %d: light rain flag not cleared by heavy observation", i)
		}
		if !heavy[i] {
			t.Fatalf("row %d: heavy rain flag missing", i)
		}
	}
}

func TestFlaggedRemoval(t *testing.T) {
	ds := testDataset(map[string][]float64{
		"ws_10m": {1, 2, 3, 4},
	})
	ds.SetFlag(FlagStorm, []bool{false, true, false, false})
	ds.SetFlag(FlagHail, []bool{false, false, true, false})

	out, removed, err := FlaggedRemoval(ds, []string{FlagStorm, FlagHail})
	if err != nil {
		t.Fatalf("FlaggedRemoval: %v", err)
	}
	if removed != 2 || out.Len() != 2 {
		t.Fatalf("removed = %d, rows = %d; want 2 and 2", removed, out.Len())
	}
	col, _ := out.Column("ws_10m")
	if col[0] != 1 || col[1] != 4 {
		t.Errorf("surviving rows = %v, want [1 4]", col)
	}
	if _, ok := out.Flag(FlagStorm); ok {
		t.Error("consumed flag column not dropped")
	}
	if math.IsNaN(col[0]) {
		t.Error("unexpected NaN after removal")
	}
}

func TestFlaggedRemovalMissingFlag(t *testing.T) {
	ds := testDataset(map[string][]float64{"ws_10m": {1}})
	if _, _, err := FlaggedRemoval(ds, []string{FlagStorm}); err == nil {
		t.Error("missing flag column accepted")
	}
}
