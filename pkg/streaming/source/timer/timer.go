// Package timer provides streams of clock ticks.
//
// Ticks are pushed into a buffered stream as they happen, whether or not
// anyone is pulling, and are kept until pulled. The stream ends when the
// context passed to the constructor is done.
package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	pcontext "github.com/vnykmshr/pullstream/pkg/common/context"
	"github.com/vnykmshr/pullstream/pkg/common/validation"
	"github.com/vnykmshr/pullstream/pkg/metrics"
	"github.com/vnykmshr/pullstream/pkg/streaming/buffer"
	"github.com/vnykmshr/pullstream/pkg/streaming/seq"
	"github.com/vnykmshr/pullstream/pkg/streaming/stream"
)

// Config holds configuration for timer streams.
type Config struct {
	// Name identifies the stream in logs and metric labels. Empty means a
	// generated "timer-<id>" name.
	Name string

	// Location is the time zone cron expressions are evaluated in. Nil means time.Local.
	Location *time.Location

	// Logger receives start and stop events. The zero value discards everything.
	Logger zerolog.Logger

	// Metrics, when non-nil, counts ticks and instruments the underlying buffer.
	Metrics *metrics.Registry
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Location: time.Local,
		Logger:   zerolog.Nop(),
	}
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = "timer-" + uuid.NewString()[:8]
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	return c
}

func (c Config) buffer() buffer.Config {
	return buffer.Config{Name: c.Name, Logger: c.Logger, Metrics: c.Metrics}
}

// parser accepts standard five-field expressions, an optional leading seconds
// field, and descriptors such as @hourly or @every 5m.
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Interval returns a stream that yields the current time every d until ctx is done.
func Interval(ctx context.Context, d time.Duration) (stream.Stream[time.Time], error) {
	return IntervalWithConfig(ctx, d, DefaultConfig())
}

// IntervalWithConfig is Interval with an explicit configuration.
func IntervalWithConfig(ctx context.Context, d time.Duration, config Config) (stream.Stream[time.Time], error) {
	if err := validation.ValidatePositiveDuration("timer", "interval", d); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	return stream.BufferWithConfig(config.buffer(), func(sink seq.Sink[time.Time]) {
		go func() {
			ticker := time.NewTicker(d)
			defer ticker.Stop()
			run(ctx, config, sink, func() <-chan time.Time { return ticker.C })
		}()
	}), nil
}

// Cron returns a stream that yields the activation time of every firing of the
// cron expression expr until ctx is done.
func Cron(ctx context.Context, expr string) (stream.Stream[time.Time], error) {
	return CronWithConfig(ctx, expr, DefaultConfig())
}

// CronWithConfig is Cron with an explicit configuration.
func CronWithConfig(ctx context.Context, expr string, config Config) (stream.Stream[time.Time], error) {
	if err := validation.ValidateNotEmpty("timer", "cron expression", expr); err != nil {
		return nil, err
	}
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression '%s': %w", expr, err)
	}
	config = config.withDefaults()

	return stream.BufferWithConfig(config.buffer(), func(sink seq.Sink[time.Time]) {
		go run(ctx, config, sink, func() <-chan time.Time {
			now := time.Now().In(config.Location)
			return time.After(schedule.Next(now).Sub(now))
		})
	}), nil
}

// run emits a tick each time the channel returned by next fires and ends the
// sink once ctx is done.
func run(ctx context.Context, config Config, sink seq.Sink[time.Time], next func() <-chan time.Time) {
	log := config.Logger.With().Str("timer", config.Name).Logger()
	m := config.Metrics.Source(config.Name)

	log.Debug().Msg("timer started")
	defer func() {
		_ = sink.End()
		log.Debug().Bool("timed_out", pcontext.IsTimedOut(ctx)).Msg("timer stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-next():
			if err := sink.Emit(t); err != nil {
				m.Error()
				return
			}
			m.Item()
		}
	}
}
