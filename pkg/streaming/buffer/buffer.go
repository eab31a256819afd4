package buffer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	gferrors "github.com/vnykmshr/pullstream/pkg/common/errors"
	"github.com/vnykmshr/pullstream/pkg/metrics"
	"github.com/vnykmshr/pullstream/pkg/streaming/deferred"
)

// ErrAlreadyEnded is returned by Emit and End once the buffer has ended.
var ErrAlreadyEnded = gferrors.ErrAlreadyEnded

// result is what a suspended pull is woken with: a value, or an explicit end.
type result[T any] struct {
	value T
	ok    bool
}

// Buffer is an unbounded FIFO that bridges pushes (Emit/End) to pulls (Next).
//
// All state is guarded by one mutex. Emit, End and the wake-up of waiters
// happen inside the same critical section, so a pull never misses a value or
// an end, and no waiter is woken twice. At any moment either items or waiters
// is empty: a value emitted while pulls are waiting goes straight to the
// oldest of them.
type Buffer[T any] struct {
	mu      sync.Mutex
	items   []T
	ended   bool
	waiters []*deferred.Value[result[T]]
	clones  []*Buffer[T]
	nclones int

	name    string
	base    zerolog.Logger // configured logger, before the name is attached
	log     zerolog.Logger
	metrics *metrics.BufferMetrics
}

// New creates an empty Buffer with the default configuration.
func New[T any]() *Buffer[T] {
	return NewWithConfig[T](DefaultConfig())
}

// NewWithConfig creates an empty Buffer with the given configuration.
func NewWithConfig[T any](config Config) *Buffer[T] {
	config = config.withDefaults()
	return &Buffer[T]{
		name:    config.Name,
		base:    config.Logger,
		log:     config.Logger.With().Str("buffer", config.Name).Logger(),
		metrics: config.Metrics.Buffer(config.Name),
	}
}

// Name returns the buffer's name.
func (b *Buffer[T]) Name() string {
	return b.name
}

// Emit pushes v. It fails with ErrAlreadyEnded after End.
func (b *Buffer[T]) Emit(v T) error {
	if !b.offer(v) {
		b.metrics.Rejected("emit")
		b.log.Warn().Msg("emit after end rejected")
		return ErrAlreadyEnded
	}
	return nil
}

// End marks the stream as finished and wakes every suspended pull with end of
// sequence. It fails with ErrAlreadyEnded when called a second time.
func (b *Buffer[T]) End() error {
	if !b.finish() {
		b.metrics.Rejected("end")
		b.log.Warn().Msg("end after end rejected")
		return ErrAlreadyEnded
	}
	return nil
}

// offer is Emit without error reporting; it returns false if the buffer had ended.
func (b *Buffer[T]) offer(v T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ended {
		return false
	}

	b.metrics.Emitted()
	if len(b.waiters) > 0 {
		w := b.waiters[0]
		b.waiters[0] = nil
		b.waiters = b.waiters[1:]
		w.Resolve(result[T]{value: v, ok: true})
	} else {
		b.items = append(b.items, v)
	}
	b.metrics.State(len(b.items), len(b.waiters))

	// Forwarding under the lock keeps every clone in emission order.
	live := b.clones[:0]
	for _, c := range b.clones {
		if c.offer(v) {
			live = append(live, c)
		}
	}
	b.clones = live

	return true
}

// finish is End without error reporting; it returns false if the buffer had ended.
func (b *Buffer[T]) finish() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ended {
		return false
	}
	b.ended = true
	b.metrics.Ended()

	for _, w := range b.waiters {
		w.Resolve(result[T]{})
	}
	woken := len(b.waiters)
	b.waiters = nil

	for _, c := range b.clones {
		c.finish()
	}
	b.clones = nil

	b.metrics.State(len(b.items), 0)
	b.log.Debug().Int("buffered", len(b.items)).Int("woken", woken).Msg("buffer ended")
	return true
}

// Next pulls the oldest value. It returns (v, true, nil) for a value and
// (zero, false, nil) once the buffer has ended and been emptied. While the
// buffer is empty and not ended, Next blocks until a value or End arrives, or
// until ctx is done, in which case it returns ctx.Err(). A value that was
// handed to this pull before the cancellation was observed is returned, not
// dropped.
func (b *Buffer[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	b.mu.Lock()
	if len(b.items) > 0 {
		v := b.popLocked()
		b.mu.Unlock()
		b.metrics.Pulled()
		return v, true, nil
	}
	if b.ended {
		b.mu.Unlock()
		return zero, false, nil
	}
	if err := ctx.Err(); err != nil {
		b.mu.Unlock()
		return zero, false, err
	}
	w := deferred.New[result[T]]()
	b.waiters = append(b.waiters, w)
	b.metrics.State(0, len(b.waiters))
	b.mu.Unlock()

	start := time.Now()
	r, err := w.Wait(ctx)
	if err != nil {
		b.mu.Lock()
		withdrawn := b.withdrawLocked(w)
		b.mu.Unlock()
		if withdrawn {
			return zero, false, err
		}
		// Emit or End popped this waiter before we re-took the lock, so it is
		// resolved and the result belongs to this pull.
		r, _ = w.Get()
	}
	b.metrics.Waited(time.Since(start))

	if !r.ok {
		return zero, false, nil
	}
	b.metrics.Pulled()
	return r.value, true, nil
}

func (b *Buffer[T]) popLocked() T {
	var zero T
	v := b.items[0]
	b.items[0] = zero
	b.items = b.items[1:]
	if len(b.items) == 0 {
		b.items = nil
	}
	b.metrics.State(len(b.items), len(b.waiters))
	return v
}

func (b *Buffer[T]) withdrawLocked(w *deferred.Value[result[T]]) bool {
	for i, pending := range b.waiters {
		if pending == w {
			b.waiters = append(b.waiters[:i], b.waiters[i+1:]...)
			b.metrics.State(len(b.items), len(b.waiters))
			return true
		}
	}
	return false
}

// Drain pulls until end of sequence and returns the values in order. On an
// ended buffer that has already been drained it returns an empty slice.
func (b *Buffer[T]) Drain(ctx context.Context) ([]T, error) {
	values := make([]T, 0, b.Len())
	for {
		v, ok, err := b.Next(ctx)
		if err != nil {
			return values, err
		}
		if !ok {
			return values, nil
		}
		values = append(values, v)
	}
}

// Clone returns a new Buffer holding a copy of the values buffered here and not
// yet pulled. Every later Emit and End on this buffer is copied to the clone
// until the clone itself ends. The clone is a sink of its own: values emitted
// to it directly are not seen here, and pulling from either never consumes
// from the other.
func (b *Buffer[T]) Clone() *Buffer[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nclones++
	name := fmt.Sprintf("%s-clone-%d", b.name, b.nclones)
	c := &Buffer[T]{
		name:    name,
		ended:   b.ended,
		base:    b.base,
		log:     b.base.With().Str("buffer", name).Logger(),
		metrics: b.metrics.Sibling(name),
	}
	if len(b.items) > 0 {
		c.items = make([]T, len(b.items))
		copy(c.items, b.items)
	}
	if !b.ended {
		b.clones = append(b.clones, c)
	}
	c.metrics.State(len(c.items), 0)
	b.log.Debug().Str("clone", c.name).Int("snapshot", len(c.items)).Msg("buffer cloned")
	return c
}

// Len returns the number of buffered values not yet pulled.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Waiters returns the number of pulls currently suspended.
func (b *Buffer[T]) Waiters() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.waiters)
}

// Ended reports whether End has been called.
func (b *Buffer[T]) Ended() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ended
}
