package stream

import (
	"context"
	"iter"

	"github.com/vnykmshr/pullstream/pkg/streaming/buffer"
	"github.com/vnykmshr/pullstream/pkg/streaming/seq"
	"github.com/vnykmshr/pullstream/pkg/streaming/tee"
)

// Stream is a pull sequence with chainable operators and consuming helpers.
// Streams are lazy: nothing is pulled until a consuming operation such as
// Subscribe, ToSlice or Next runs. Pulling is destructive, so a Stream is
// consumed once; use Share or buffer clones to feed several consumers.
type Stream[T any] interface {
	seq.Sequence[T]

	// Intermediate operations (lazy, return a new Stream over this one)

	// Filter returns a stream of the elements matching predicate.
	Filter(predicate func(T) bool) Stream[T]

	// AsyncFilter is Filter with a context-aware, fallible predicate.
	AsyncFilter(predicate func(context.Context, T) (bool, error)) Stream[T]

	// Map returns a stream of mapper applied to each element. See MapTo for
	// mappers that change the element type.
	Map(mapper func(T) T) Stream[T]

	// AsyncMap is Map with a context-aware, fallible mapper.
	AsyncMap(mapper func(context.Context, T) (T, error)) Stream[T]

	// FlatMap replaces each element with the contents of the sequence mapper
	// returns for it. Empty sequences are skipped.
	FlatMap(mapper func(T) seq.Sequence[T]) Stream[T]

	// Take returns a stream of at most the first n elements.
	Take(n int) Stream[T]

	// Skip returns a stream without the first n elements.
	Skip(n int) Stream[T]

	// Peek calls action on every element as it is pulled.
	Peek(action func(T)) Stream[T]

	// Merge returns a stream of the elements of this stream and others, in the
	// order they become available. ctx bounds the background drains.
	Merge(ctx context.Context, others ...seq.Sequence[T]) Stream[T]

	// Share returns a stream that several goroutines may pull concurrently.
	// Concurrent pulls are coalesced into one pull of this stream; see package tee.
	Share() Stream[T]

	// Buffered starts draining this stream into a buffer in the background
	// and returns a stream over that buffer. ctx bounds the drain.
	Buffered(ctx context.Context) Stream[T]

	// Terminal operations (pull until the end)

	// Subscribe pulls every element and hands it to observer. It returns once
	// the stream ends, calling OnComplete, or fails, calling OnError.
	Subscribe(ctx context.Context, observer Observer[T]) error

	// ForEach calls action for every element.
	ForEach(ctx context.Context, action func(T)) error

	// ToSlice returns all elements in order. It does not return for an
	// infinite stream unless ctx is cancelled.
	ToSlice(ctx context.Context) ([]T, error)

	// All returns the elements as a range-over-func iterator. A failure is
	// yielded once with the zero value and ends the iteration.
	All(ctx context.Context) iter.Seq2[T, error]

	// First pulls one element. ok is false if the stream was already at its end.
	First(ctx context.Context) (T, bool, error)

	// Reduce folds the elements into identity with accumulator.
	Reduce(ctx context.Context, identity T, accumulator func(T, T) T) (T, error)

	// Count returns the number of elements.
	Count(ctx context.Context) (int64, error)

	// AnyMatch reports whether any element matches predicate. It stops at the first match.
	AnyMatch(ctx context.Context, predicate func(T) bool) (bool, error)

	// AllMatch reports whether all elements match predicate. It stops at the first mismatch.
	AllMatch(ctx context.Context, predicate func(T) bool) (bool, error)
}

// Observer receives the elements of a subscribed stream. OnNext is required;
// OnComplete and OnError are optional.
type Observer[T any] struct {
	OnNext     func(T)
	OnComplete func()
	OnError    func(error)
}

// stream is the default implementation of Stream.
type stream[T any] struct {
	source seq.Sequence[T]
}

// New creates a Stream over a pull sequence. A Stream passed in is returned as is.
func New[T any](source seq.Sequence[T]) Stream[T] {
	if s, ok := source.(Stream[T]); ok {
		return s
	}
	return &stream[T]{source: source}
}

func (s *stream[T]) Next(ctx context.Context) (T, bool, error) {
	return s.source.Next(ctx)
}

// Filter implementation
func (s *stream[T]) Filter(predicate func(T) bool) Stream[T] {
	return New(seq.Filter(s.source, predicate))
}

// AsyncFilter implementation
func (s *stream[T]) AsyncFilter(predicate func(context.Context, T) (bool, error)) Stream[T] {
	return New(seq.AsyncFilter(s.source, predicate))
}

// Map implementation
func (s *stream[T]) Map(mapper func(T) T) Stream[T] {
	return New(seq.Map(s.source, mapper))
}

// AsyncMap implementation
func (s *stream[T]) AsyncMap(mapper func(context.Context, T) (T, error)) Stream[T] {
	return New(seq.AsyncMap(s.source, mapper))
}

// FlatMap implementation
func (s *stream[T]) FlatMap(mapper func(T) seq.Sequence[T]) Stream[T] {
	return New(seq.FlatMap(s.source, mapper))
}

// Take implementation
func (s *stream[T]) Take(n int) Stream[T] {
	return New(seq.Take(s.source, n))
}

// Skip implementation
func (s *stream[T]) Skip(n int) Stream[T] {
	return New(seq.Skip(s.source, n))
}

// Peek implementation
func (s *stream[T]) Peek(action func(T)) Stream[T] {
	return New(seq.Tap(s.source, action))
}

// Merge implementation
func (s *stream[T]) Merge(ctx context.Context, others ...seq.Sequence[T]) Stream[T] {
	sources := make([]seq.Sequence[T], 0, len(others)+1)
	sources = append(sources, s.source)
	sources = append(sources, others...)
	return New(seq.Merge(ctx, sources...))
}

// Share implementation
func (s *stream[T]) Share() Stream[T] {
	return New[T](tee.New(s.source))
}

// Buffered implementation
func (s *stream[T]) Buffered(ctx context.Context) Stream[T] {
	b := &bufferedSeq[T]{buf: buffer.New[T]()}
	go b.fill(ctx, s.source)
	return New[T](b)
}

// bufferedSeq is a buffer filled eagerly from a source. A failure of the
// source is reported after the values buffered before it.
type bufferedSeq[T any] struct {
	buf *buffer.Buffer[T]
	err error // written before buf is ended
}

func (b *bufferedSeq[T]) fill(ctx context.Context, source seq.Sequence[T]) {
	if err := seq.Pipe[T](ctx, source, b.buf); err != nil {
		b.err = err
		_ = b.buf.End()
	}
}

func (b *bufferedSeq[T]) Next(ctx context.Context) (T, bool, error) {
	v, ok, err := b.buf.Next(ctx)
	if err != nil || ok {
		return v, ok, err
	}
	var zero T
	return zero, false, b.err
}
