package seq

import (
	"context"
	"sync"
)

// Map returns a sequence yielding f(v) for every value of s. The end of s is
// passed through unchanged.
func Map[T, O any](s Sequence[T], f func(T) O) Sequence[O] {
	return &mapSeq[T, O]{source: s, fn: func(_ context.Context, v T) (O, error) { return f(v), nil }}
}

// AsyncMap is Map with a context-aware, fallible function. A failure from f
// fails the pull that triggered it.
func AsyncMap[T, O any](s Sequence[T], f func(context.Context, T) (O, error)) Sequence[O] {
	return &mapSeq[T, O]{source: s, fn: f}
}

// Filter returns a sequence yielding only the values of s for which p holds.
// Rejected values are dropped, never buffered.
func Filter[T any](s Sequence[T], p func(T) bool) Sequence[T] {
	return &filterSeq[T]{source: s, fn: func(_ context.Context, v T) (bool, error) { return p(v), nil }}
}

// AsyncFilter is Filter with a context-aware, fallible predicate.
func AsyncFilter[T any](s Sequence[T], p func(context.Context, T) (bool, error)) Sequence[T] {
	return &filterSeq[T]{source: s, fn: p}
}

// Take returns a sequence yielding the first n values of s and then reporting
// the end. s is pulled at most n times. n <= 0 yields an empty sequence.
func Take[T any](s Sequence[T], n int) Sequence[T] {
	return &takeSeq[T]{source: s, remaining: n}
}

// Skip returns a sequence that discards the first n values of s.
func Skip[T any](s Sequence[T], n int) Sequence[T] {
	return &skipSeq[T]{source: s, remaining: n}
}

// Tap calls f for every value as it is pulled, passing the value through.
func Tap[T any](s Sequence[T], f func(T)) Sequence[T] {
	return &mapSeq[T, T]{source: s, fn: func(_ context.Context, v T) (T, error) {
		f(v)
		return v, nil
	}}
}

// FlatMap maps every value of s to a sequence with f and yields the values of
// those sequences in turn. A mapped sequence that is empty is skipped: the
// next value of s is pulled instead of ending the result.
func FlatMap[T, O any](s Sequence[T], f func(T) Sequence[O]) Sequence[O] {
	return &flatMapSeq[T, O]{source: s, fn: f}
}

// --- Sequence implementations ---

type mapSeq[T, O any] struct {
	source Sequence[T]
	fn     func(context.Context, T) (O, error)
}

func (m *mapSeq[T, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	v, ok, err := m.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := m.fn(ctx, v)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

type filterSeq[T any] struct {
	source Sequence[T]
	fn     func(context.Context, T) (bool, error)
}

func (f *filterSeq[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		v, ok, err := f.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		keep, err := f.fn(ctx, v)
		if err != nil {
			return zero, false, err
		}
		if keep {
			return v, true, nil
		}
	}
}

type takeSeq[T any] struct {
	mu        sync.Mutex
	source    Sequence[T]
	remaining int
}

func (t *takeSeq[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remaining <= 0 {
		return zero, false, nil
	}
	v, ok, err := t.source.Next(ctx)
	if err != nil {
		return zero, false, err
	}
	if !ok {
		t.remaining = 0
		return zero, false, nil
	}
	t.remaining--
	return v, true, nil
}

type skipSeq[T any] struct {
	mu        sync.Mutex
	source    Sequence[T]
	remaining int
}

func (s *skipSeq[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.remaining > 0 {
		_, ok, err := s.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		s.remaining--
	}
	return s.source.Next(ctx)
}

type flatMapSeq[T, O any] struct {
	mu      sync.Mutex
	source  Sequence[T]
	fn      func(T) Sequence[O]
	current Sequence[O]
	done    bool
}

func (f *flatMapSeq[T, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	f.mu.Lock()
	defer f.mu.Unlock()
	for !f.done {
		if f.current != nil {
			v, ok, err := f.current.Next(ctx)
			if err != nil {
				return zero, false, err
			}
			if ok {
				return v, true, nil
			}
			f.current = nil
		}
		in, ok, err := f.source.Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if !ok {
			f.done = true
			break
		}
		f.current = f.fn(in)
	}
	return zero, false, nil
}
