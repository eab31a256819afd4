/*
Package pullstream provides push/pull event streams for Go.

Producers push values into a sink whenever they have them; consumers pull
lazily and block only while nothing is available.

Core (pkg/streaming):
  - deferred: Single-assignment values awaited by any number of goroutines
  - buffer: Unbounded queue bridging push-time production and pull-time consumption
  - tee: Fan-out of one pull sequence to several concurrent consumers
  - seq: Pull contract, sources and lazy operators (map, filter, take, flatMap, merge)
  - stream: Chainable façade with subscription and collection

Sources (pkg/streaming/source):
  - timer: Interval and cron tick streams
  - pubsub: Redis Pub/Sub subscriptions and publishing

Supporting packages:
  - config: YAML and environment configuration
  - logging: zerolog construction
  - metrics: Prometheus instrumentation for buffers, tees and sources

Example usage:

	import (
		"github.com/vnykmshr/pullstream/pkg/streaming/seq"
		"github.com/vnykmshr/pullstream/pkg/streaming/stream"
	)

	events := stream.Buffer(func(sink seq.Sink[string]) {
		go func() {
			sink.Emit("hello")
			sink.End()
		}()
	})

	err := events.ForEach(ctx, func(e string) {
		fmt.Println(e)
	})
*/
package pullstream
