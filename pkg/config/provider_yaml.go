package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from the YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var config ConfigData
	if err := yaml.Unmarshal(cfgFile, &config); err != nil {
		return nil, err
	}

	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func validate(c *ConfigData) error {
	if len(c.Inputs) == 0 {
		return fmt.Errorf("config: at least one input file is required")
	}
	for i, in := range c.Inputs {
		if in.File == "" {
			return fmt.Errorf("config: input %d has no file", i)
		}
		if in.TimeColumn == "" {
			return fmt.Errorf("config: input %s has no time column", in.File)
		}
	}
	if c.Station.SourceTimezone == "" {
		c.Station.SourceTimezone = "UTC"
	}
	if c.Station.TargetTimezone == "" {
		c.Station.TargetTimezone = c.Station.SourceTimezone
	}
	for _, s := range c.Shadowing {
		if s.Target == "" {
			return fmt.Errorf("config: shadowing group has no target height")
		}
		if len(s.Sensors) == 0 {
			return fmt.Errorf("config: shadowing group %s has no sensors", s.Target)
		}
	}
	if c.Resampling.WindowMinutes <= 0 {
		return fmt.Errorf("config: resampling window must be positive")
	}
	return nil
}
