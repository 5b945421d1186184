// Package config defines the station configuration consumed by the
// conditioning pipeline and the providers that load it.
package config

import (
	"github.com/Intergalactyc/WindProfiles/internal/classify"
	"github.com/Intergalactyc/WindProfiles/internal/conditioning"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	LoadConfig() (*ConfigData, error)
}

// ConfigData is the complete station configuration.
type ConfigData struct {
	Station     StationData        `yaml:"station"`
	Inputs      []InputData        `yaml:"inputs"`
	Units       conditioning.Units `yaml:"units"`
	Shadowing   []ShadowingData    `yaml:"shadowing,omitempty"`
	Removals    []RemovalData      `yaml:"removals,omitempty"`
	Outliers    OutlierData        `yaml:"outliers"`
	Resampling  ResamplingData     `yaml:"resampling"`
	Strip       StripData          `yaml:"strip"`
	Weather     *WeatherData       `yaml:"weather,omitempty"`
	Derivations DerivationsData    `yaml:"derivations"`
	Classifiers ClassifiersData    `yaml:"classifiers"`
	Output      OutputData         `yaml:"output"`
}

// StationData identifies the tower and its time and gravity context.
type StationData struct {
	Name           string  `yaml:"name"`
	SourceTimezone string  `yaml:"source_timezone"`
	TargetTimezone string  `yaml:"target_timezone"`
	Gravity        float64 `yaml:"gravity,omitempty"` // m/s²; 0 means standard
}

// InputData describes one boom's CSV file: how to find the time column
// and how to rename the source headers onto <family>_<heightId> names.
type InputData struct {
	File       string            `yaml:"file"`
	TimeColumn string            `yaml:"time_column"`
	TimeFormat string            `yaml:"time_format,omitempty"`
	Renames    map[string]string `yaml:"renames"`
}

// SensorData is one sensor in a shadowing group.
type SensorData struct {
	Speed     string  `yaml:"speed"`
	Direction string  `yaml:"direction"`
	Angle     float64 `yaml:"angle"`
}

// ShadowingData configures one shadow-aware merge of co-located sensors.
type ShadowingData struct {
	Target  string       `yaml:"target"`
	Width   float64      `yaml:"width"`
	Sensors []SensorData `yaml:"sensors"`
	DropOld bool         `yaml:"drop_old"`
}

// RemovalData is one maintenance/bad-data window, bounds inclusive and
// expressed in the source timezone. An empty heights list removes whole
// rows.
type RemovalData struct {
	Start   string   `yaml:"start"`
	End     string   `yaml:"end"`
	Heights []string `yaml:"heights,omitempty"`
}

// OutlierData configures the rolling outlier filter.
type OutlierData struct {
	WindowMinutes int     `yaml:"window_minutes"`
	Sigma         float64 `yaml:"sigma"`
	NullOnly      bool    `yaml:"null_only,omitempty"`
}

// ResamplingData configures aggregation onto the fixed time grid.
type ResamplingData struct {
	WindowMinutes       int      `yaml:"window_minutes"`
	Method              string   `yaml:"method,omitempty"`
	Heights             []string `yaml:"heights"`
	PTI                 bool     `yaml:"pti,omitempty"`
	TurbulenceReference string   `yaml:"turbulence_reference,omitempty"`
}

// StripData configures missing-data row removal.
type StripData struct {
	Necessary []string `yaml:"necessary"`
	Minimum   int      `yaml:"minimum"`
}

// WeatherData points at the auxiliary event and precipitation tables.
type WeatherData struct {
	EventsFile   string  `yaml:"events_file"`
	PrecipFile   string  `yaml:"precip_file"`
	Trace        float64 `yaml:"trace,omitempty"`
	RemoveStorms bool    `yaml:"remove_storms,omitempty"`
}

// DerivationsData configures the physics columns.
type DerivationsData struct {
	VPTHeights    []int             `yaml:"vpt_heights"`
	Substitutions map[string]string `yaml:"substitutions,omitempty"`
	LapseVariable string            `yaml:"lapse_variable,omitempty"`
	LapseHeights  []int             `yaml:"lapse_heights,omitempty"`
	RiHeights     []int             `yaml:"ri_heights"`
	FitHeights    []int             `yaml:"fit_heights"`
	FitMinimum    int               `yaml:"fit_minimum,omitempty"`
	BetaColumn    string            `yaml:"beta_column,omitempty"`
	AlphaColumn   string            `yaml:"alpha_column,omitempty"`
	GustHeights   []int             `yaml:"gust_heights,omitempty"`
	TIHeights     []int             `yaml:"ti_heights,omitempty"`
	TIFactor      float64           `yaml:"ti_factor,omitempty"`
}

// ClassifiersData holds the optional row classifiers.
type ClassifiersData struct {
	Terrain   *classify.TerrainClassifier   `yaml:"terrain,omitempty"`
	Stability *classify.StabilityClassifier `yaml:"stability,omitempty"`
}

// OutputData configures where the conditioned table and the validation
// summary are written.
type OutputData struct {
	DatasetFile string `yaml:"dataset_file"`
	SummaryFile string `yaml:"summary_file"`
}
