package dispatch

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config groups all tunables. Values come from environment variables with
// the prefix "HEYSO_DISPATCH". Example: HEYSO_DISPATCH_SHARDS=8 .
type Config struct {
	Shards         int           `envconfig:"SHARDS"          default:"4"`
	QueueSize      int           `envconfig:"QUEUE_SIZE"      default:"128"`
	EnqueueTimeout time.Duration `envconfig:"ENQUEUE_TIMEOUT" default:"100ms"`

	// ErrorHandler is invoked after a job's final failure. Leave nil if you
	// do not care.
	ErrorHandler func(error) `envconfig:"-"`

	MaxAttempts int           `envconfig:"MAX_ATTEMPTS" default:"3"`
	BaseBackoff time.Duration `envconfig:"BASE_BACKOFF" default:"100ms"`
	MaxInterval time.Duration `envconfig:"MAX_INTERVAL" default:"5s"`
}

// LoadConfig populates Config from the environment.
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process("HEYSO_DISPATCH", &c)
}

func (c Config) withDefaults() Config {
	if c.Shards <= 0 {
		c.Shards = 4
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 128
	}
	if c.EnqueueTimeout <= 0 {
		c.EnqueueTimeout = 100 * time.Millisecond
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = 100 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 5 * time.Second
	}
	return c
}
