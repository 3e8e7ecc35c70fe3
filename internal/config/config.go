package config

import (
	"fmt"
	"runtime"
)

//Config is the configuration of the trjstat command.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Histogram HistogramConfig `mapstructure:"histogram"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
}

//LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

//HistogramConfig contains the default binning of the distributions
type HistogramConfig struct {
	Points int     `mapstructure:"points"`
	Max    float64 `mapstructure:"max"`
}

//AnalysisConfig contains defaults shared by the analyses
type AnalysisConfig struct {
	Cpus        int     `mapstructure:"cpus"` // 0 means one per CPU
	Temperature float64 `mapstructure:"temperature"`
}

//DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Histogram: HistogramConfig{
			Points: 200,
			Max:    10,
		},
		Analysis: AnalysisConfig{
			Cpus:        0,
			Temperature: 300,
		},
	}
}

//Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	if err := c.Histogram.Validate(); err != nil {
		return fmt.Errorf("histogram config: %w", err)
	}
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}
	return nil
}

//Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Level] {
		return fmt.Errorf("invalid level: %s", c.Level)
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("invalid format: %s (must be json or console)", c.Format)
	}
	return nil
}

//Validate validates histogram configuration
func (c *HistogramConfig) Validate() error {
	if c.Points < 1 {
		return fmt.Errorf("invalid points: %d", c.Points)
	}
	if c.Max <= 0 {
		return fmt.Errorf("invalid max: %g", c.Max)
	}
	return nil
}

//Validate validates analysis configuration
func (c *AnalysisConfig) Validate() error {
	if c.Cpus < 0 {
		return fmt.Errorf("invalid cpus: %d", c.Cpus)
	}
	if c.Temperature <= 0 {
		return fmt.Errorf("invalid temperature: %g", c.Temperature)
	}
	return nil
}

//Workers returns the number of concurrent workers to use
func (c *AnalysisConfig) Workers() int {
	if c.Cpus == 0 {
		return runtime.NumCPU()
	}
	return c.Cpus
}
