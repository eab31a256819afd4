package seq

import "context"

// Sequence is the pull side of a stream.
//
// Next returns (v, true, nil) for the next value, (zero, false, nil) once the
// sequence is exhausted, and (zero, false, err) when producing the next value
// failed. Pulling is destructive: each value is yielded at most once per
// sequence. Calling Next after the end keeps reporting the end without side
// effects.
type Sequence[T any] interface {
	Next(ctx context.Context) (T, bool, error)
}

// SequenceFunc adapts a function to the Sequence interface.
type SequenceFunc[T any] func(ctx context.Context) (T, bool, error)

// Next calls f(ctx).
func (f SequenceFunc[T]) Next(ctx context.Context) (T, bool, error) {
	return f(ctx)
}

// Sink is the push side of a stream.
//
// Emit fails with errors.ErrAlreadyEnded after End, and End fails with the
// same error when called twice. Values reach pulls in the order they were
// emitted, and End is ordered after every Emit that preceded it.
type Sink[T any] interface {
	Emit(v T) error
	End() error
}

// Collect pulls s until the end and returns the values in order. It never
// returns on an infinite sequence unless ctx is cancelled.
func Collect[T any](ctx context.Context, s Sequence[T]) ([]T, error) {
	var values []T
	for {
		v, ok, err := s.Next(ctx)
		if err != nil {
			return values, err
		}
		if !ok {
			return values, nil
		}
		values = append(values, v)
	}
}

// Pipe pulls s until the end and emits every value into sink, then ends the
// sink. A pull failure or a rejected Emit stops the copy and is returned; the
// sink is not ended in that case.
func Pipe[T any](ctx context.Context, s Sequence[T], sink Sink[T]) error {
	for {
		v, ok, err := s.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return sink.End()
		}
		if err := sink.Emit(v); err != nil {
			return err
		}
	}
}
