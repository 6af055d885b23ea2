// Package config handles pipeline configuration loading and management.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all pipeline settings.
type Config struct {
	Tool    ToolConfig    `yaml:"tool"`
	Dataset DatasetConfig `yaml:"dataset"`
	Logging LoggingConfig `yaml:"logging"`
}

// ToolConfig describes the cutting tool assumed during labeling.
type ToolConfig struct {
	DiameterMM float64 `yaml:"diameter_mm"`
}

// DatasetConfig holds batch generation settings.
type DatasetConfig struct {
	Material   string  `yaml:"material"`
	Seed       int64   `yaml:"seed"`
	TrainRatio float64 `yaml:"train_ratio"`
	Workers    int     `yaml:"workers"` // 0 means one worker per CPU
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Tool: ToolConfig{
			DiameterMM: 6.0,
		},
		Dataset: DatasetConfig{
			Material:   "Aluminium 6061",
			Seed:       2025,
			TrainRatio: 0.8,
			Workers:    0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Load loads configuration with priority: defaults < file. An empty path
// falls back to ./camstrat.yaml when that file exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("camstrat.yaml"); err == nil {
			path = "camstrat.yaml"
		}
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) validate() error {
	if c.Tool.DiameterMM <= 0 {
		return fmt.Errorf("tool diameter must be positive, got %v", c.Tool.DiameterMM)
	}
	if c.Dataset.TrainRatio <= 0 || c.Dataset.TrainRatio >= 1 {
		return fmt.Errorf("train ratio must be in (0,1), got %v", c.Dataset.TrainRatio)
	}
	return nil
}
