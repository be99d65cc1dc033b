package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Economics EconomicsConfig `yaml:"economics" envconfig:"ECONOMICS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// AnalysisConfig contains the constraint-analysis parameters supplied
// to the engine. Peak hours are a contiguous inclusive range here;
// markets with non-contiguous peak conventions construct the hour set
// directly.
type AnalysisConfig struct {
	PeakHourStart int      `yaml:"peak_hour_start" envconfig:"PEAK_HOUR_START" validate:"min=0,max=23"`
	PeakHourEnd   int      `yaml:"peak_hour_end" envconfig:"PEAK_HOUR_END" validate:"min=0,max=23,gtefield=PeakHourStart"`
	ExcludedZones []string `yaml:"excluded_zones" envconfig:"EXCLUDED_ZONES"`

	MinZoneObservations int `yaml:"min_zone_observations" envconfig:"MIN_ZONE_OBSERVATIONS" validate:"min=1"`
	MinNodeObservations int `yaml:"min_node_observations" envconfig:"MIN_NODE_OBSERVATIONS" validate:"min=1"`

	CongestionThreshold float64 `yaml:"congestion_threshold" envconfig:"CONGESTION_THRESHOLD" validate:"gt=0"`
	HighEnergyOffset    float64 `yaml:"high_energy_offset" envconfig:"HIGH_ENERGY_OFFSET" validate:"gt=0"`

	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" validate:"min=1"`
	HotspotLimit   int `yaml:"hotspot_limit" envconfig:"HOTSPOT_LIMIT" validate:"min=1"`
}

// EconomicsConfig contains the import-congestion economics parameters
type EconomicsConfig struct {
	GoodHours    int `yaml:"good_hours" envconfig:"GOOD_HOURS" validate:"min=1"`
	PartialHours int `yaml:"partial_hours" envconfig:"PARTIAL_HOURS" validate:"min=1,ltfield=GoodHours"`
}

// Default returns the standard configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/gridlens.log",
		},
		Analysis: AnalysisConfig{
			PeakHourStart:       7,
			PeakHourEnd:         22,
			MinZoneObservations: 100,
			MinNodeObservations: 24,
			CongestionThreshold: 2.0,
			HighEnergyOffset:    3.0,
			MaxConcurrency:      4,
			HotspotLimit:        10,
		},
		Economics: EconomicsConfig{
			GoodHours:    8000,
			PartialHours: 6000,
		},
	}
}

// Load reads configuration in precedence order: defaults, then an
// optional YAML file, then GRIDLENS_* environment variables. The result
// is tag-validated before being returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// Environment wins over the file
	if err := envconfig.Process("GRIDLENS", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
