package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Metrics backends the CLI can report to.
const (
	MetricsNone       = "none"
	MetricsPrometheus = "prometheus"
	MetricsOTel       = "otel"
)

// Config controls the usersettings CLI.
type Config struct {
	LogLevel  string `env:"USERSETTINGS_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"USERSETTINGS_LOG_FORMAT" envDefault:"text"`
	Metrics   string `env:"USERSETTINGS_METRICS"    envDefault:"none"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from environ instead of the process
// environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown enumerated values.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("USERSETTINGS_LOG_FORMAT: unsupported format %q", c.LogFormat)
	}
	switch c.Metrics {
	case MetricsNone, MetricsPrometheus, MetricsOTel:
	default:
		return fmt.Errorf("USERSETTINGS_METRICS: unsupported backend %q", c.Metrics)
	}
	return nil
}
