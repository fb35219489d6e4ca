// Package config loads CLI configuration from the environment and sets up
// logging.
package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration.
type Config struct {
	BaseURL  string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load populates Config from environment variables (prefix HEYSO_).
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("HEYSO", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Init initializes logging from the loaded configuration.
func (c *Config) Init() {
	InitLogger()
	SetLogLevel(c.LogLevel)

	log.Debug().
		Str("base_url", c.BaseURL).
		Str("log_level", c.LogLevel).
		Msg("configuration loaded")
}

// SetLogLevel applies the named level, defaulting to info.
func SetLogLevel(level string) {
	switch level {
	case "debug", "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error", "ERROR":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
