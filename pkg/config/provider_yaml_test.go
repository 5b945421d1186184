package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
station:
  name: kcc
  source_timezone: UTC
  target_timezone: US/Central
inputs:
  - file: boom1.csv
    time_column: TIMESTAMP
    renames:
      MeanVelocity: ws_6m
      MeanDirection: wd_6m
      MeanTemperature: t_6m
units:
  pressure: mmHg
  temperature: C
  humidity: percent
  speed: mph
  direction:
    measure: degrees
    zero: N
    orientation: CW
shadowing:
  - target: 106m
    width: 30
    drop_old: true
    sensors:
      - speed: ws_106m1
        direction: wd_106m1
        angle: 90
      - speed: ws_106m2
        direction: wd_106m2
        angle: 270
outliers:
  window_minutes: 30
  sigma: 5
resampling:
  window_minutes: 10
  heights: ["6m", "10m", "106m"]
  pti: true
  turbulence_reference: 106m
strip:
  necessary: ["10m", "106m"]
  minimum: 2
derivations:
  vpt_heights: [10, 106]
  substitutions:
    p_106m: p_10m
  ri_heights: [10, 106]
  fit_heights: [6, 10, 106]
classifiers:
  stability:
    column: Ri_bulk
    cuts: [-0.02, 0.02]
    labels: [unstable, neutral, stable]
    default: undefined
output:
  dataset_file: out.csv
  summary_file: summary.json
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "station.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	provider := NewYAMLProvider(writeConfig(t, sampleConfig))
	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Station.Name != "kcc" || cfg.Station.TargetTimezone != "US/Central" {
		t.Errorf("station = %+v", cfg.Station)
	}
	if len(cfg.Inputs) != 1 || cfg.Inputs[0].Renames["MeanVelocity"] != "ws_6m" {
		t.Errorf("inputs = %+v", cfg.Inputs)
	}
	if cfg.Units.Speed != "mph" || cfg.Units.Direction.Zero != "N" {
		t.Errorf("units = %+v", cfg.Units)
	}
	if len(cfg.Shadowing) != 1 || len(cfg.Shadowing[0].Sensors) != 2 {
		t.Errorf("shadowing = %+v", cfg.Shadowing)
	}
	if cfg.Resampling.TurbulenceReference != "106m" || !cfg.Resampling.PTI {
		t.Errorf("resampling = %+v", cfg.Resampling)
	}
	if cfg.Derivations.Substitutions["p_106m"] != "p_10m" {
		t.Errorf("derivations = %+v", cfg.Derivations)
	}
	if cfg.Classifiers.Stability == nil || len(cfg.Classifiers.Stability.Labels) != 3 {
		t.Errorf("classifiers = %+v", cfg.Classifiers)
	}
}

func TestLoadConfigDefaultsTimezones(t *testing.T) {
	body := `
inputs:
  - file: boom1.csv
    time_column: TIMESTAMP
resampling:
  window_minutes: 10
`
	cfg, err := NewYAMLProvider(writeConfig(t, body)).LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Station.SourceTimezone != "UTC" || cfg.Station.TargetTimezone != "UTC" {
		t.Errorf("timezones = %q/%q, want UTC/UTC", cfg.Station.SourceTimezone, cfg.Station.TargetTimezone)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no inputs", "resampling:\n  window_minutes: 10\n"},
		{"input missing time column", "inputs:\n  - file: a.csv\nresampling:\n  window_minutes: 10\n"},
		{"nonpositive resampling window", "inputs:\n  - file: a.csv\n    time_column: t\n"},
		{"shadowing without target", `
inputs:
  - file: a.csv
    time_column: t
resampling:
  window_minutes: 10
shadowing:
  - width: 30
    sensors:
      - speed: ws_106m1
        direction: wd_106m1
        angle: 90
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewYAMLProvider(writeConfig(t, tt.body)).LoadConfig(); err == nil {
				t.Error("invalid configuration accepted")
			}
		})
	}
}
