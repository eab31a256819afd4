// Package pubsub bridges Redis Pub/Sub channels and streams.
//
// Subscribe turns the messages published on one or more channels into a
// buffered stream; Publish drains a sequence into PUBLISH commands. Delivery
// is Redis Pub/Sub's: at most once, and only to subscribers connected at the
// time of publication.
package pubsub

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	pcontext "github.com/vnykmshr/pullstream/pkg/common/context"
	gferrors "github.com/vnykmshr/pullstream/pkg/common/errors"
	"github.com/vnykmshr/pullstream/pkg/common/validation"
	"github.com/vnykmshr/pullstream/pkg/metrics"
	"github.com/vnykmshr/pullstream/pkg/streaming/buffer"
	"github.com/vnykmshr/pullstream/pkg/streaming/seq"
	"github.com/vnykmshr/pullstream/pkg/streaming/stream"
)

// Message is a message received from a subscribed channel.
type Message struct {
	Channel string
	Payload string
}

// Config holds configuration for Pub/Sub streams.
type Config struct {
	// Name identifies the stream in logs and metric labels. Empty means a
	// generated "pubsub-<id>" name.
	Name string

	// Logger receives subscription events. The zero value discards everything.
	Logger zerolog.Logger

	// Metrics, when non-nil, counts messages and failures and instruments the
	// underlying buffer.
	Metrics *metrics.Registry
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Logger: zerolog.Nop(),
	}
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = "pubsub-" + uuid.NewString()[:8]
	}
	return c
}

// Subscribe subscribes to channels and returns a stream of the messages
// published on them. It returns once Redis has confirmed the subscription.
// The stream ends when ctx is done or the subscription is closed by the
// client; messages already received stay available until pulled.
func Subscribe(ctx context.Context, client redis.UniversalClient, channels ...string) (stream.Stream[Message], error) {
	return SubscribeWithConfig(ctx, client, DefaultConfig(), channels...)
}

// SubscribeWithConfig is Subscribe with an explicit configuration.
func SubscribeWithConfig(ctx context.Context, client redis.UniversalClient, config Config, channels ...string) (stream.Stream[Message], error) {
	if err := validateClient(client); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive("pubsub", "channels", len(channels)); err != nil {
		return nil, err
	}
	for _, ch := range channels {
		if err := validation.ValidateNotEmpty("pubsub", "channel", ch); err != nil {
			return nil, err
		}
	}
	config = config.withDefaults()
	log := config.Logger.With().Str("pubsub", config.Name).Logger()

	ps := client.Subscribe(ctx, channels...)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, gferrors.NewOperationError("pubsub", "Subscribe", err).
			WithContext(fmt.Sprintf("channels=%v", channels))
	}
	log.Debug().Strs("channels", channels).Msg("subscribed")

	bufConfig := buffer.Config{Name: config.Name, Logger: config.Logger, Metrics: config.Metrics}
	return stream.BufferWithConfig(bufConfig, func(sink seq.Sink[Message]) {
		go pump(ctx, ps, sink, log, config.Metrics.Source(config.Name))
	}), nil
}

func pump(ctx context.Context, ps *redis.PubSub, sink seq.Sink[Message], log zerolog.Logger, m *metrics.SourceMetrics) {
	defer func() {
		_ = ps.Close()
		_ = sink.End()
		log.Debug().Bool("canceled", pcontext.IsCanceled(ctx)).Msg("unsubscribed")
	}()

	messages := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := sink.Emit(Message{Channel: msg.Channel, Payload: msg.Payload}); err != nil {
				m.Error()
				return
			}
			m.Item()
		}
	}
}

// Publish pulls s until the end and publishes every value on channel. It
// returns the number of values published. Values are encoded by go-redis:
// strings, byte slices, numbers, booleans and encoding.BinaryMarshaler
// implementations are accepted.
func Publish[T any](ctx context.Context, client redis.UniversalClient, channel string, s seq.Sequence[T]) (int64, error) {
	if err := validateClient(client); err != nil {
		return 0, err
	}
	if err := validation.ValidateNotEmpty("pubsub", "channel", channel); err != nil {
		return 0, err
	}

	var published int64
	for {
		v, ok, err := s.Next(ctx)
		if err != nil {
			return published, err
		}
		if !ok {
			return published, nil
		}
		if err := client.Publish(ctx, channel, v).Err(); err != nil {
			return published, gferrors.NewOperationError("pubsub", "Publish", err).
				WithContext("channel=" + channel)
		}
		published++
	}
}

func validateClient(client redis.UniversalClient) error {
	return validation.ValidateNotNil("pubsub", "redis client", client)
}
