package buffer

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/pullstream/pkg/metrics"
)

// Config holds configuration for a Buffer.
type Config struct {
	// Name identifies the buffer in logs and metric labels. Empty means a
	// generated "buffer-<id>" name.
	Name string

	// Logger receives lifecycle events. The zero value discards everything.
	Logger zerolog.Logger

	// Metrics, when non-nil, records emits, pulls, depth and waiters.
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
		c.Name = "buffer-" + uuid.NewString()[:8]
	}
	return c
}
