package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

//Load loads the configuration from configPath, or from a trjstat.yaml file
//in the usual places if configPath is empty. A missing file is not an error
//when no path was given. Environment variables with the TRJSTAT_ prefix
//override the file, e.g. TRJSTAT_LOGGING_LEVEL.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("trjstat")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/trjstat")
		v.AddConfigPath("/etc/trjstat")
	}

	setDefaults(v)

	v.SetEnvPrefix("TRJSTAT")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return parseConfig(v)
}

//setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)

	v.SetDefault("histogram.points", d.Histogram.Points)
	v.SetDefault("histogram.max", d.Histogram.Max)

	v.SetDefault("analysis.cpus", d.Analysis.Cpus)
	v.SetDefault("analysis.temperature", d.Analysis.Temperature)
}

//parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
