package testutil

import (
	"context"
	"sync"
	"sync/atomic"
)

// CountingSequence is a finite pull sequence over a slice that counts how many
// times Next was called. Operators that promise not to over-pull are checked with it.
type CountingSequence[T any] struct {
	mu    sync.Mutex
	items []T
	pos   int
	calls atomic.Int64
}

// NewCountingSequence creates a CountingSequence yielding items in order.
func NewCountingSequence[T any](items ...T) *CountingSequence[T] {
	return &CountingSequence[T]{items: items}
}

// Next returns the next item or reports end once the slice is exhausted.
func (s *CountingSequence[T]) Next(ctx context.Context) (T, bool, error) {
	s.calls.Add(1)
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.items) {
		return zero, false, nil
	}
	v := s.items[s.pos]
	s.pos++
	return v, true, nil
}

// Calls returns the number of Next invocations so far.
func (s *CountingSequence[T]) Calls() int64 {
	return s.calls.Load()
}

// FailingSequence yields its items and then fails every later pull with Err.
type FailingSequence[T any] struct {
	Items []T
	Err   error
	pos   int
}

// Next returns the next item or Err once items run out.
func (s *FailingSequence[T]) Next(_ context.Context) (T, bool, error) {
	var zero T
	if s.pos >= len(s.Items) {
		return zero, false, s.Err
	}
	v := s.Items[s.pos]
	s.pos++
	return v, true, nil
}

// Recorder collects values from concurrent callbacks.
type Recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

// Record appends v.
func (r *Recorder[T]) Record(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

// Values returns a copy of everything recorded so far.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

// Len returns the number of recorded values.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}
