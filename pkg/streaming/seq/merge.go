package seq

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	gferrors "github.com/vnykmshr/pullstream/pkg/common/errors"
	"github.com/vnykmshr/pullstream/pkg/streaming/buffer"
)

// Merge returns a sequence yielding the values of all sources as they become
// available. On the first pull it starts one goroutine per source that drains
// it into a buffer.Buffer; the buffer is ended once every source is exhausted.
// Values of one source keep their order; interleaving across sources is
// unspecified.
//
// ctx bounds the background drains. Cancel it to stop them when the merged
// sequence is abandoned before its end. If a source fails, the other drains
// are cancelled and the failure is reported after the values already buffered.
func Merge[T any](ctx context.Context, sources ...Sequence[T]) Sequence[T] {
	return MergeWithConfig(ctx, buffer.DefaultConfig(), sources...)
}

// MergeWithConfig is Merge with an explicit configuration for the underlying buffer.
func MergeWithConfig[T any](ctx context.Context, config buffer.Config, sources ...Sequence[T]) Sequence[T] {
	buf := buffer.NewWithConfig[T](config)
	return &mergeSeq[T]{
		ctx:     ctx,
		sources: sources,
		buf:     buf,
		log:     config.Logger.With().Str("buffer", buf.Name()).Logger(),
	}
}

type mergeSeq[T any] struct {
	ctx     context.Context
	sources []Sequence[T]
	buf     *buffer.Buffer[T]
	log     zerolog.Logger
	once    sync.Once
	err     error // written before buf is ended
}

func (m *mergeSeq[T]) start() {
	g, gctx := errgroup.WithContext(m.ctx)
	for i, src := range m.sources {
		g.Go(func() error {
			for {
				v, ok, err := src.Next(gctx)
				if err != nil {
					return gferrors.NewOperationError("seq", "Merge", err).
						WithContext(fmt.Sprintf("source %d", i))
				}
				if !ok {
					return nil
				}
				if err := m.buf.Emit(v); err != nil {
					return err
				}
			}
		})
	}

	go func() {
		err := g.Wait()
		if err != nil {
			m.log.Debug().Err(err).Msg("merge stopped")
		} else {
			m.log.Debug().Int("sources", len(m.sources)).Msg("merge complete")
		}
		m.err = err
		_ = m.buf.End()
	}()
}

func (m *mergeSeq[T]) Next(ctx context.Context) (T, bool, error) {
	m.once.Do(m.start)
	v, ok, err := m.buf.Next(ctx)
	if err != nil || ok {
		return v, ok, err
	}
	// The end was observed under the buffer lock, after err was stored.
	var zero T
	return zero, false, m.err
}
