/*
Package stream provides a chainable façade over pull sequences.

A Stream wraps a seq.Sequence and is itself one. Operators return new streams
that pull from the one they were built on; nothing runs until a consuming
operation pulls.

Core Concepts:

  - Lazy: elements are produced only when pulled
  - Destructive: each element is delivered to one pull; a Stream is consumed once
  - Context-aware: every pull takes a context and a suspended pull returns on cancellation
  - Explicit end: Next reports the end as ok == false, never as a sentinel value

Basic Usage:

	result, err := stream.FromSlice([]int{1, 2, 3, 4, 5}).
		Filter(func(x int) bool { return x%2 == 0 }).
		Map(func(x int) int { return x * 2 }).
		ToSlice(ctx)

	fmt.Println(result) // [4 8]

Stream Creation:

	// From values
	stream.FromSlice([]string{"a", "b", "c"})
	stream.Just(42)
	stream.Empty[int]()

	// From a channel, ending when it is closed
	stream.FromChannel(ch)

	// Single element produced on the first pull
	stream.FromFunc(func(ctx context.Context) (User, error) { return loadUser(ctx, id) })

	// Push side handed to a callback; values are buffered until pulled
	events := stream.Buffer(func(sink seq.Sink[Event]) {
		bus.OnEvent(func(e Event) { _ = sink.Emit(e) })
		bus.OnClose(func() { _ = sink.End() })
	})

	// Callback invoked once per pull
	ticks := stream.Create(func(ctx context.Context, sink seq.Sink[time.Time]) {
		time.AfterFunc(time.Second, func() { _ = sink.Emit(time.Now()) })
	})

Intermediate Operations:

	s.Filter(func(x int) bool { return x > 0 })
	s.AsyncFilter(func(ctx context.Context, x int) (bool, error) { return allowed(ctx, x) })
	s.Map(func(x int) int { return x * 2 })
	s.AsyncMap(func(ctx context.Context, x int) (int, error) { return lookup(ctx, x) })
	s.FlatMap(func(x int) seq.Sequence[int] { return seq.FromSlice([]int{x, x}) })
	s.Take(10)
	s.Skip(5)
	s.Peek(func(x int) { log.Printf("processing: %d", x) })
	s.Merge(ctx, other)

Element types change through package functions, since methods cannot have
type parameters:

	names := stream.MapTo[User, string](users, func(u User) string { return u.Name })

Terminal Operations:

	err := s.Subscribe(ctx, stream.Observer[int]{
		OnNext:     func(x int) { fmt.Println(x) },
		OnComplete: func() { fmt.Println("done") },
		OnError:    func(err error) { log.Print(err) },
	})

	err := s.ForEach(ctx, func(x int) { fmt.Println(x) })
	slice, err := s.ToSlice(ctx)
	first, ok, err := s.First(ctx)
	sum, err := s.Reduce(ctx, 0, func(acc, x int) int { return acc + x })

	for x, err := range s.All(ctx) {
		if err != nil {
			return err
		}
		fmt.Println(x)
	}

ToSlice, Count and Reduce never return on an infinite stream unless ctx is
cancelled. Bound such streams with Take first.

Error Handling:

A failing pull, including a failing AsyncMap or AsyncFilter callback, aborts
the consuming operation and its error is returned unchanged. Errors are never
swallowed or retried.

	_, err := s.ToSlice(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		log.Println("timed out")
	}

Sharing:

A Stream must not be consumed by several loops unless it is shared. Share
coalesces concurrent pulls into one pull of the underlying stream; every
consumer waiting at that moment receives the same element. Consumers that are
not pulling while an element is fetched do not see it. When every consumer
must see every element, give each its own clone of a buffer.Buffer instead.

	shared := s.Share()
	go shared.ForEach(ctx, audit)
	go shared.ForEach(ctx, index)
*/
package stream
