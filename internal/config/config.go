// Package config loads server and engine configuration from file,
// environment and defaults via viper.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/pulseforge/tsengine/internal/analytics"
	"github.com/pulseforge/tsengine/pkg/errors"
)

// Config is the top-level configuration for the server and CLI.
type Config struct {
	Server  ServerConfig      `json:"server" mapstructure:"server"`
	Logging LoggingConfig     `json:"logging" mapstructure:"logging"`
	Engine  *analytics.Config `json:"engine" mapstructure:"engine"`
}

// ServerConfig controls the HTTP listeners.
type ServerConfig struct {
	Host        string `json:"host" mapstructure:"host"`
	Port        int    `json:"port" mapstructure:"port"`
	MetricsPort int    `json:"metrics_port" mapstructure:"metrics_port"`
}

// LoggingConfig controls log verbosity and format.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// Load reads configuration from the optional file path, TSENGINE_* environment
// variables and built-in defaults, in increasing order of precedence for the
// environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("engine.forecast.confidence_level", 0.95)
	v.SetDefault("engine.forecast.smoothing_factor", 0.3)
	v.SetDefault("engine.anomaly.threshold", 2.0)
	v.SetDefault("engine.anomaly.forest_trees", 100)
	v.SetDefault("engine.anomaly.subsample_size", 256)
	v.SetDefault("engine.anomaly.seed", 1)

	v.SetEnvPrefix("TSENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeValidation, errors.CodeInvalidInput, "failed to read config file")
		}
	}

	config := &Config{Engine: analytics.DefaultConfig()}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeValidation, errors.CodeInvalidInput, "failed to unmarshal config")
	}

	return config, nil
}
