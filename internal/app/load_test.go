package app

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Intergalactyc/WindProfiles/pkg/config"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadInputsOuterMerge(t *testing.T) {
	dir := t.TempDir()
	// Boom 2 is missing the 00:10 sample and brings a timestamp boom 1
	// lacks; the merge must cover the union with NaN fill. Unmapped
	// columns (Battery) are dropped.
	boom1 := writeFile(t, dir, "boom1.csv", `TIMESTAMP,MeanVelocity,Battery
2018-06-01 00:00:00,4.4,12.1
2018-06-01 00:10:00,5.5,12.0
`)
	boom2 := writeFile(t, dir, "boom2.csv", `TIMESTAMP,MeanTemperature
2018-06-01 00:00:00,290.1
2018-06-01 00:20:00,290.3
`)

	cfg := pipelineConfig()
	cfg.Inputs = []config.InputData{
		{File: boom1, TimeColumn: "TIMESTAMP", Renames: map[string]string{"MeanVelocity": "ws_10m"}},
		{File: boom2, TimeColumn: "TIMESTAMP", Renames: map[string]string{"MeanTemperature": "t_10m"}},
	}
	a := New(cfg, zap.NewNop().Sugar())
	if err := a.resolveLocations(); err != nil {
		t.Fatalf("resolveLocations: %v", err)
	}

	ds, err := a.loadInputs()
	if err != nil {
		t.Fatalf("loadInputs: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("rows = %d, want 3 (union of timestamps)", ds.Len())
	}
	if ds.HasColumn("Battery") || ds.HasColumn("battery_10m") {
		t.Error("unmapped column survived loading")
	}

	ws, _ := ds.Column("ws_10m")
	tc, _ := ds.Column("t_10m")
	if ws[0] != 4.4 || tc[0] != 290.1 {
		t.Errorf("row 0 = (%v, %v), want (4.4, 290.1)", ws[0], tc[0])
	}
	if ws[1] != 5.5 || !math.IsNaN(tc[1]) {
		t.Errorf("row 1 = (%v, %v), want (5.5, NaN)", ws[1], tc[1])
	}
	if !math.IsNaN(ws[2]) || tc[2] != 290.3 {
		t.Errorf("row 2 = (%v, %v), want (NaN, 290.3)", ws[2], tc[2])
	}

	want := time.Date(2018, 6, 1, 0, 10, 0, 0, time.UTC)
	if !ds.Time(1).Equal(want) {
		t.Errorf("time[1] = %v, want %v", ds.Time(1), want)
	}
}

func TestLoadInputsMissingTimeColumn(t *testing.T) {
	dir := t.TempDir()
	boom := writeFile(t, dir, "boom.csv", `ts,v
2018-06-01 00:00:00,1
`)
	cfg := pipelineConfig()
	cfg.Inputs = []config.InputData{
		{File: boom, TimeColumn: "TIMESTAMP", Renames: map[string]string{"v": "ws_10m"}},
	}
	a := New(cfg, zap.NewNop().Sugar())
	if err := a.resolveLocations(); err != nil {
		t.Fatalf("resolveLocations: %v", err)
	}
	if _, err := a.loadInputs(); err == nil {
		t.Error("missing time column accepted")
	}
}

func TestWriteCSVRoundsMissingToEmpty(t *testing.T) {
	ds := pipelineInput()
	col, _ := ds.Column("ws_10m")
	col[2] = math.NaN()
	ds.SetFlag("storm", []bool{false, true, false, false, false, false})

	path := filepath.Join(t.TempDir(), "out.csv")
	labels := map[string][]string{"stability": {"s", "s", "s", "s", "s", "s"}}
	if err := writeCSV(ds, labels, path); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}

	records, err := readCSV(path)
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	if len(records) != 7 {
		t.Fatalf("records = %d, want header plus 6 rows", len(records))
	}

	idx, err := headerIndex(records[0], path, "time", "ws_10m", "storm", "stability")
	if err != nil {
		t.Fatalf("headerIndex: %v", err)
	}
	if records[3][idx["ws_10m"]] != "" {
		t.Errorf("missing value written as %q, want empty", records[3][idx["ws_10m"]])
	}
	if records[2][idx["storm"]] != "true" {
		t.Errorf("flag written as %q, want true", records[2][idx["storm"]])
	}
	if records[1][idx["stability"]] != "s" {
		t.Error("label column not written")
	}
}
