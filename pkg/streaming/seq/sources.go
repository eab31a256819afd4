package seq

import (
	"context"
	"sync"
)

// FromSlice returns a sequence yielding the elements of items in order.
func FromSlice[T any](items []T) Sequence[T] {
	var (
		mu  sync.Mutex
		pos int
	)
	return SequenceFunc[T](func(ctx context.Context) (T, bool, error) {
		var zero T
		mu.Lock()
		defer mu.Unlock()
		if pos >= len(items) {
			return zero, false, nil
		}
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}
		v := items[pos]
		pos++
		return v, true, nil
	})
}

// Just returns a sequence yielding v once.
func Just[T any](v T) Sequence[T] {
	return FromSlice([]T{v})
}

// Empty returns a sequence that is already exhausted.
func Empty[T any]() Sequence[T] {
	return SequenceFunc[T](func(context.Context) (T, bool, error) {
		var zero T
		return zero, false, nil
	})
}

// FromChannel returns a sequence yielding values received from ch until it is closed.
func FromChannel[T any](ch <-chan T) Sequence[T] {
	return SequenceFunc[T](func(ctx context.Context) (T, bool, error) {
		var zero T
		select {
		case v, ok := <-ch:
			if !ok {
				return zero, false, nil
			}
			return v, true, nil
		case <-ctx.Done():
			return zero, false, ctx.Err()
		}
	})
}

// FromFunc returns a single-value sequence whose value is produced by fn on
// the first pull. fn runs at most once; if it fails, that pull fails and the
// sequence is exhausted afterwards.
func FromFunc[T any](fn func(ctx context.Context) (T, error)) Sequence[T] {
	var (
		mu   sync.Mutex
		done bool
	)
	return SequenceFunc[T](func(ctx context.Context) (T, bool, error) {
		var zero T
		mu.Lock()
		defer mu.Unlock()
		if done {
			return zero, false, nil
		}
		done = true
		v, err := fn(ctx)
		if err != nil {
			return zero, false, err
		}
		return v, true, nil
	})
}

// Generate returns a sequence backed by fn. It is shorthand for SequenceFunc[T](fn).
func Generate[T any](fn func(ctx context.Context) (T, bool, error)) Sequence[T] {
	return SequenceFunc[T](fn)
}
