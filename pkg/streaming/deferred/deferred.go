// Package deferred provides a one-shot value that is resolved once and
// observed by any number of waiters.
package deferred

import (
	"context"
	"sync"
)

// Value is a write-once cell. It starts unresolved; the first Resolve fixes its
// value and releases every current and future waiter. Later Resolve calls are
// no-ops that report false.
//
// The zero Value is not usable; create one with New.
type Value[T any] struct {
	once  sync.Once
	ready chan struct{} // closed on resolution
	value T             // written once, before ready is closed
}

// New returns an unresolved Value.
func New[T any]() *Value[T] {
	return &Value[T]{ready: make(chan struct{})}
}

// Resolved returns a Value that is already resolved with v.
func Resolved[T any](v T) *Value[T] {
	d := New[T]()
	d.Resolve(v)
	return d
}

// Resolve sets the value and wakes all waiters. It returns false if the Value
// had already been resolved, in which case v is discarded.
func (d *Value[T]) Resolve(v T) bool {
	resolved := false
	d.once.Do(func() {
		d.value = v
		close(d.ready)
		resolved = true
	})
	return resolved
}

// Done returns a channel that is closed once the Value is resolved.
func (d *Value[T]) Done() <-chan struct{} {
	return d.ready
}

// IsResolved reports whether Resolve has been called.
func (d *Value[T]) IsResolved() bool {
	select {
	case <-d.ready:
		return true
	default:
		return false
	}
}

// Get returns the value without blocking. ok is false while unresolved.
func (d *Value[T]) Get() (v T, ok bool) {
	select {
	case <-d.ready:
		return d.value, true
	default:
		return v, false
	}
}

// Wait blocks until the Value is resolved or ctx is done. A resolved value
// always wins over a context that is cancelled at the same time.
func (d *Value[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-d.ready:
		return d.value, nil
	default:
	}

	select {
	case <-d.ready:
		return d.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
