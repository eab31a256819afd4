package stream

import (
	"context"
	"iter"

	"github.com/vnykmshr/pullstream/pkg/streaming/seq"
)

// Subscribe implementation
func (s *stream[T]) Subscribe(ctx context.Context, observer Observer[T]) error {
	for {
		v, ok, err := s.source.Next(ctx)
		if err != nil {
			if observer.OnError != nil {
				observer.OnError(err)
			}
			return err
		}
		if !ok {
			if observer.OnComplete != nil {
				observer.OnComplete()
			}
			return nil
		}
		if observer.OnNext != nil {
			observer.OnNext(v)
		}
	}
}

// ForEach implementation
func (s *stream[T]) ForEach(ctx context.Context, action func(T)) error {
	return s.Subscribe(ctx, Observer[T]{OnNext: action})
}

// ToSlice implementation
func (s *stream[T]) ToSlice(ctx context.Context) ([]T, error) {
	result, err := seq.Collect(ctx, s.source)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []T{}
	}
	return result, nil
}

// All implementation
func (s *stream[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, ok, err := s.source.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok || !yield(v, nil) {
				return
			}
		}
	}
}

// First implementation
func (s *stream[T]) First(ctx context.Context) (T, bool, error) {
	return s.source.Next(ctx)
}

// Reduce implementation
func (s *stream[T]) Reduce(ctx context.Context, identity T, accumulator func(T, T) T) (T, error) {
	result := identity
	err := s.ForEach(ctx, func(v T) {
		result = accumulator(result, v)
	})
	if err != nil {
		return identity, err
	}
	return result, nil
}

// Count implementation
func (s *stream[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.ForEach(ctx, func(T) { count++ })
	return count, err
}

// AnyMatch implementation
func (s *stream[T]) AnyMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	for v, err := range s.All(ctx) {
		if err != nil {
			return false, err
		}
		if predicate(v) {
			return true, nil
		}
	}
	return false, nil
}

// AllMatch implementation
func (s *stream[T]) AllMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	for v, err := range s.All(ctx) {
		if err != nil {
			return false, err
		}
		if !predicate(v) {
			return false, nil
		}
	}
	return true, nil
}

// MapTo transforms the elements of s into another type.
func MapTo[T, O any](s seq.Sequence[T], mapper func(T) O) Stream[O] {
	return New(seq.Map(s, mapper))
}

// AsyncMapTo is MapTo with a context-aware, fallible mapper.
func AsyncMapTo[T, O any](s seq.Sequence[T], mapper func(context.Context, T) (O, error)) Stream[O] {
	return New(seq.AsyncMap(s, mapper))
}

// FlatMapTo replaces each element of s with the contents of the sequence
// mapper returns for it, possibly of another type.
func FlatMapTo[T, O any](s seq.Sequence[T], mapper func(T) seq.Sequence[O]) Stream[O] {
	return New(seq.FlatMap(s, mapper))
}
