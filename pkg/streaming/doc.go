/*
Package streaming groups the pull-based streaming packages.

Every stream is a sequence: a value with a single method,

	Next(ctx context.Context) (T, bool, error)

that returns the next value, reports the end with ok == false, or fails.
Pulling is lazy: nothing is produced until somebody asks for it, except for
buffered streams, which accept pushed values at any time and hold them until
pulled.

Packages:

  - deferred: single-assignment value, the building block for waiting pulls
  - buffer: unbounded push/pull queue with clones
  - tee: one sequence shared by several consumers, one round at a time
  - seq: the contracts, sources and operators
  - stream: the chainable Stream type
  - source/timer, source/pubsub: streams fed by the clock and by Redis

Basic usage:

	s := stream.FromSlice([]int{1, 2, 3, 4}).
		Filter(func(x int) bool { return x%2 == 0 }).
		Map(func(x int) int { return x * 10 })

	values, err := s.ToSlice(ctx) // [20 40]

A consumer that stops early simply stops pulling; cancel the context passed
to a producer to release its goroutines.
*/
package streaming
