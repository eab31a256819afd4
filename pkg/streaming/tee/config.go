package tee

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/pullstream/pkg/metrics"
)

// Config holds configuration for a Tee.
type Config struct {
	// Name identifies the tee in logs and metric labels. Empty means a
	// generated "tee-<id>" name.
	Name string

	// Logger receives round events at debug level. The zero value discards everything.
	Logger zerolog.Logger

	// Metrics, when non-nil, counts rounds and joined pulls.
	Metrics *metrics.Registry
}

// DefaultConfig returns a default configuration: generated name, no logging, no metrics.
func DefaultConfig() Config {
	return Config{
		Logger: zerolog.Nop(),
	}
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = "tee-" + uuid.NewString()[:8]
	}
	return c
}
