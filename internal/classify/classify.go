// Package classify labels rows of a derived dataset categorically. The
// pipeline depends only on the Classifier capability; the concrete
// variants are an angular-sector classifier keyed on a wind-direction
// channel (terrain) and an ordered-threshold classifier keyed on a
// numeric parameter such as the bulk Richardson number (stability).
package classify

import (
	"fmt"
	"math"

	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
	"github.com/Intergalactyc/WindProfiles/pkg/polar"
)

// Classifier assigns one categorical label per row of a dataset.
type Classifier interface {
	ClassifyRows(ds *timeseries.Dataset) ([]string, error)
}

// Sector is one labeled angular sector: directions within HalfWidth
// degrees of Center belong to it.
type Sector struct {
	Label     string  `yaml:"label"`
	Center    float64 `yaml:"center"`
	HalfWidth float64 `yaml:"half_width"`
}

// TerrainClassifier labels rows by which angular sector the wind
// direction in Column falls into. Rows matching no sector, or with an
// undefined direction, get the Default label.
type TerrainClassifier struct {
	Column  string   `yaml:"column"`
	Sectors []Sector `yaml:"sectors"`
	Default string   `yaml:"default"`
}

// ClassifyRows implements Classifier. Sector membership uses minimal
// angular distance, so sectors spanning north (e.g. center 350°) behave
// correctly.
func (c *TerrainClassifier) ClassifyRows(ds *timeseries.Dataset) ([]string, error) {
	col, err := ds.MustColumn(c.Column)
	if err != nil {
		return nil, err
	}

	labels := make([]string, ds.Len())
	for i, dir := range col {
		labels[i] = c.Default
		if math.IsNaN(dir) {
			continue
		}
		for _, s := range c.Sectors {
			if polar.AngularDistance(dir, s.Center) <= s.HalfWidth {
				labels[i] = s.Label
				break
			}
		}
	}
	return labels, nil
}

// StabilityClassifier labels rows by bucketing the value in Column into
// ordered ranges: label i applies below Cuts[i], and the final label
// applies at or above the last cut. Undefined values get the Default
// label.
type StabilityClassifier struct {
	Column  string    `yaml:"column"`
	Cuts    []float64 `yaml:"cuts"`
	Labels  []string  `yaml:"labels"`
	Default string    `yaml:"default"`
}

// ClassifyRows implements Classifier.
func (c *StabilityClassifier) ClassifyRows(ds *timeseries.Dataset) ([]string, error) {
	if len(c.Labels) != len(c.Cuts)+1 {
		return nil, fmt.Errorf("classify: %d cuts need %d labels, got %d",
			len(c.Cuts), len(c.Cuts)+1, len(c.Labels))
	}
	col, err := ds.MustColumn(c.Column)
	if err != nil {
		return nil, err
	}

	labels := make([]string, ds.Len())
	for i, v := range col {
		if math.IsNaN(v) {
			labels[i] = c.Default
			continue
		}
		labels[i] = c.Labels[len(c.Cuts)]
		for j, cut := range c.Cuts {
			if v < cut {
				labels[i] = c.Labels[j]
				break
			}
		}
	}
	return labels, nil
}
