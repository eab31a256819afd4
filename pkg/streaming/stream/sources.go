package stream

import (
	"context"
	"sync/atomic"

	gferrors "github.com/vnykmshr/pullstream/pkg/common/errors"
	"github.com/vnykmshr/pullstream/pkg/streaming/buffer"
	"github.com/vnykmshr/pullstream/pkg/streaming/deferred"
	"github.com/vnykmshr/pullstream/pkg/streaming/seq"
)

// FromSlice creates a Stream from a slice.
func FromSlice[T any](slice []T) Stream[T] {
	return New(seq.FromSlice(slice))
}

// FromChannel creates a Stream from a channel. The stream ends when ch is closed.
func FromChannel[T any](ch <-chan T) Stream[T] {
	return New(seq.FromChannel(ch))
}

// FromFunc creates a single-element Stream whose element fn produces on the first pull.
func FromFunc[T any](fn func(context.Context) (T, error)) Stream[T] {
	return New(seq.FromFunc(fn))
}

// Just creates a Stream of the single element v.
func Just[T any](v T) Stream[T] {
	return New(seq.Just(v))
}

// Empty creates an empty Stream.
func Empty[T any]() Stream[T] {
	return New(seq.Empty[T]())
}

// Buffer creates a Stream backed by a buffer.Buffer. onCreate receives the
// buffer's sink before Buffer returns and may emit into it at any time, from
// any goroutine, until it calls End. Emitted values are kept until pulled.
func Buffer[T any](onCreate func(sink seq.Sink[T])) Stream[T] {
	return BufferWithConfig(buffer.DefaultConfig(), onCreate)
}

// BufferWithConfig is Buffer with an explicit buffer configuration.
func BufferWithConfig[T any](config buffer.Config, onCreate func(sink seq.Sink[T])) Stream[T] {
	buf := buffer.NewWithConfig[T](config)
	onCreate(buf)
	return New[T](buf)
}

// Create creates a Stream that calls onNext once per pull. onNext settles
// that pull by calling Emit or End on the given sink, either before it returns
// or later from another goroutine. Only the first call on a sink counts; later
// calls fail with errors.ErrAlreadyEnded. Once a pull is settled with End the
// stream is over and onNext is not called again.
func Create[T any](onNext func(ctx context.Context, sink seq.Sink[T])) Stream[T] {
	return New[T](&createSeq[T]{onNext: onNext})
}

type createSeq[T any] struct {
	onNext func(context.Context, seq.Sink[T])
	ended  atomic.Bool
}

func (c *createSeq[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if c.ended.Load() {
		return zero, false, nil
	}
	p := &pull[T]{out: deferred.New[pullResult[T]]()}
	c.onNext(ctx, p)
	r, err := p.out.Wait(ctx)
	if err != nil {
		return zero, false, err
	}
	if !r.ok {
		c.ended.Store(true)
		return zero, false, nil
	}
	return r.value, true, nil
}

type pullResult[T any] struct {
	value T
	ok    bool
}

// pull is the one-shot sink handed to a Create callback.
type pull[T any] struct {
	out *deferred.Value[pullResult[T]]
}

func (p *pull[T]) Emit(v T) error {
	if !p.out.Resolve(pullResult[T]{value: v, ok: true}) {
		return gferrors.ErrAlreadyEnded
	}
	return nil
}

func (p *pull[T]) End() error {
	if !p.out.Resolve(pullResult[T]{}) {
		return gferrors.ErrAlreadyEnded
	}
	return nil
}
