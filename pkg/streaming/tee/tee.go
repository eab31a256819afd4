// Package tee lets several consumers pull from one sequence.
//
// A Tee runs at most one pull of the underlying sequence at a time. The
// consumer that finds no pull in flight starts a round; every consumer that
// calls Next while that round is in flight joins it and receives the same
// result. Rounds are lock-step: a consumer that is not pulling while a round
// is in flight does not see that round's value. A Tee is a broadcast of
// concurrent pulls, not a replaying buffer. Use buffer.Buffer.Clone when every
// consumer must see every value.
package tee

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	gferrors "github.com/vnykmshr/pullstream/pkg/common/errors"
	"github.com/vnykmshr/pullstream/pkg/metrics"
	"github.com/vnykmshr/pullstream/pkg/streaming/deferred"
	"github.com/vnykmshr/pullstream/pkg/streaming/seq"
)

// result is the outcome of one round, delivered identically to every participant.
type result[T any] struct {
	value T
	ok    bool
	err   error
}

type round[T any] struct {
	out      *deferred.Value[result[T]]
	attached int
}

// Tee shares one sequence between concurrent consumers. It implements seq.Sequence.
type Tee[T any] struct {
	mu      sync.Mutex
	inner   seq.Sequence[T]
	current *round[T] // nil when no pull is in flight

	rounds atomic.Int64
	joined atomic.Int64

	name    string
	log     zerolog.Logger
	metrics *metrics.TeeMetrics
}

// New creates a Tee over inner with default configuration.
func New[T any](inner seq.Sequence[T]) *Tee[T] {
	return NewWithConfig(inner, DefaultConfig())
}

// NewWithConfig creates a Tee over inner with the given configuration.
func NewWithConfig[T any](inner seq.Sequence[T], config Config) *Tee[T] {
	config = config.withDefaults()
	return &Tee[T]{
		inner:   inner,
		name:    config.Name,
		log:     config.Logger.With().Str("tee", config.Name).Logger(),
		metrics: config.Metrics.Tee(config.Name),
	}
}

// Name returns the tee's name.
func (t *Tee[T]) Name() string {
	return t.name
}

// Next joins the round in flight or starts a new one.
//
// The consumer that starts a round pulls the underlying sequence with its own
// ctx. If that pull fails with a context error while a joiner's ctx is still
// live, the joiner starts a fresh round instead of inheriting the failure.
func (t *Tee[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		t.mu.Lock()
		r := t.current
		leader := r == nil
		if leader {
			r = &round[T]{out: deferred.New[result[T]]()}
			t.current = r
		}
		r.attached++
		t.mu.Unlock()

		if leader {
			return t.lead(ctx, r)
		}

		t.joined.Add(1)
		t.metrics.Joined()

		res, err := r.out.Wait(ctx)
		if err != nil {
			t.detach(r)
			return zero, false, err
		}
		if res.err != nil && gferrors.IsContextError(res.err) && ctx.Err() == nil {
			t.log.Debug().Err(res.err).Msg("round cancelled by its leader, retrying")
			continue
		}
		return res.value, res.ok, res.err
	}
}

func (t *Tee[T]) lead(ctx context.Context, r *round[T]) (v T, ok bool, err error) {
	settled := false
	defer func() {
		if settled {
			return
		}
		// The inner pull panicked or exited the goroutine. Joiners get a
		// failure instead of waiting on a round that never completes.
		p := recover()
		t.settle(r, result[T]{err: fmt.Errorf("tee: leader panicked: %v", p)})
		if p != nil {
			panic(p)
		}
	}()

	v, ok, err = t.inner.Next(ctx)
	settled = true
	t.settle(r, result[T]{value: v, ok: ok, err: err})
	return v, ok, err
}

// settle clears the in-flight marker and resolves r. The marker goes first so
// a consumer woken by this round starts the next one instead of rejoining a
// finished round.
func (t *Tee[T]) settle(r *round[T], res result[T]) {
	t.mu.Lock()
	t.current = nil
	attached := r.attached
	t.mu.Unlock()

	r.out.Resolve(res)

	t.rounds.Add(1)
	t.metrics.Round()
	t.log.Debug().
		Int("consumers", attached).
		Bool("end", !res.ok && res.err == nil).
		Err(res.err).
		Msg("round complete")
}

func (t *Tee[T]) detach(r *round[T]) {
	t.mu.Lock()
	if t.current == r {
		r.attached--
	}
	t.mu.Unlock()
}

// InFlight returns the number of consumers attached to the round in flight,
// or 0 when no pull is running.
func (t *Tee[T]) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return 0
	}
	return t.current.attached
}

// Rounds returns the number of completed pulls of the underlying sequence.
func (t *Tee[T]) Rounds() int64 {
	return t.rounds.Load()
}

// Joined returns the number of pulls that shared a round started by another consumer.
func (t *Tee[T]) Joined() int64 {
	return t.joined.Load()
}
