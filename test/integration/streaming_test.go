// Package integration contains integration tests that verify cross-package functionality.
// These tests ensure that different components work together correctly in realistic scenarios.
package integration

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/sync/errgroup"

	"github.com/vnykmshr/pullstream/internal/testutil"
	"github.com/vnykmshr/pullstream/pkg/logging"
	"github.com/vnykmshr/pullstream/pkg/metrics"
	"github.com/vnykmshr/pullstream/pkg/streaming/buffer"
	"github.com/vnykmshr/pullstream/pkg/streaming/seq"
	"github.com/vnykmshr/pullstream/pkg/streaming/source/timer"
	"github.com/vnykmshr/pullstream/pkg/streaming/stream"
)

// TestProducersIntoPipeline verifies the full path from concurrent producers
// pushing into a buffered stream, through operators, to a consumer.
func TestProducersIntoPipeline(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	const producers, perProducer = 4, 50

	s := stream.Buffer(func(sink seq.Sink[int]) {
		var wg sync.WaitGroup
		for p := 0; p < producers; p++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perProducer; i++ {
					if err := sink.Emit(p*perProducer + i); err != nil {
						t.Errorf("emit failed: %v", err)
						return
					}
				}
			}()
		}
		go func() {
			wg.Wait()
			_ = sink.End()
		}()
	})

	result, err := s.
		Filter(func(n int) bool { return n%2 == 0 }).
		Map(func(n int) int { return n / 2 }).
		ToSlice(ctx)
	testutil.AssertNoError(t, err)

	sort.Ints(result)
	testutil.AssertEqual(t, len(result), producers*perProducer/2)
	for i, v := range result {
		if v != i {
			t.Fatalf("result[%d] = %d, want %d", i, v, i)
		}
	}
}

// TestCloneFanOut verifies that clones give every consumer the complete
// sequence, unlike a shared stream.
func TestCloneFanOut(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	src := buffer.New[string]()
	testutil.AssertNoError(t, src.Emit("a"))

	audit := src.Clone()
	index := src.Clone()

	testutil.AssertNoError(t, src.Emit("b"))
	testutil.AssertNoError(t, src.End())

	g, gctx := errgroup.WithContext(ctx)
	results := make([][]string, 3)
	for i, b := range []*buffer.Buffer[string]{src, audit, index} {
		g.Go(func() error {
			values, err := b.Drain(gctx)
			results[i] = values
			return err
		})
	}
	testutil.AssertNoError(t, g.Wait())

	for _, r := range results {
		testutil.AssertSliceEqual(t, r, []string{"a", "b"})
	}
}

// TestMergeClonesAndTimer verifies merging buffered and timer-driven sources.
func TestMergeClonesAndTimer(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	tickCtx, stopTicks := context.WithCancel(ctx)
	defer stopTicks()
	ticks, err := timer.Interval(tickCtx, 5*time.Millisecond)
	testutil.AssertNoError(t, err)

	labels := stream.MapTo[time.Time, string](ticks.Take(3), func(time.Time) string { return "tick" })
	words := stream.FromSlice([]string{"x", "y"})

	result, err := labels.Merge(ctx, words).ToSlice(ctx)
	testutil.AssertNoError(t, err)

	sort.Strings(result)
	testutil.AssertSliceEqual(t, result, []string{"tick", "tick", "tick", "x", "y"})
}

// TestContextCancellationStopsPipeline verifies that cancelling the consumer's
// context aborts a pipeline waiting on a producer that never ends.
func TestContextCancellationStopsPipeline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var sink seq.Sink[int]
	s := stream.Buffer(func(s seq.Sink[int]) { sink = s })
	testutil.AssertNoError(t, sink.Emit(1))

	start := time.Now()
	result, err := s.Map(func(n int) int { return n * 10 }).ToSlice(ctx)
	testutil.AssertErrorIs(t, err, context.DeadlineExceeded)
	if result != nil {
		t.Errorf("expected no result on failure, got %v", result)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %v", elapsed)
	}

	// The producer side is unaffected and may still end the stream.
	testutil.AssertNoError(t, sink.End())
}

// TestObservabilityWiring verifies that logging and metrics configured from
// the application packages observe a buffer's lifecycle.
func TestObservabilityWiring(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	var logs bytes.Buffer
	log, err := logging.NewWithWriter(logging.Config{Level: "debug", Format: logging.FormatJSON}, &logs)
	testutil.AssertNoError(t, err)

	registry := metrics.NewRegistry(prometheus.NewRegistry())
	s := stream.BufferWithConfig(buffer.Config{
		Name:    "orders",
		Logger:  logging.Component(log, "buffer"),
		Metrics: registry,
	}, func(sink seq.Sink[int]) {
		_ = sink.Emit(1)
		_ = sink.Emit(2)
		_ = sink.End()
		_ = sink.End()
	})

	result, err := s.ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, result, []int{1, 2})

	testutil.AssertEqual(t, promtest.ToFloat64(registry.BufferEmitted.WithLabelValues("orders")), 2.0)
	testutil.AssertEqual(t, promtest.ToFloat64(registry.BufferPulled.WithLabelValues("orders")), 2.0)
	testutil.AssertEqual(t, promtest.ToFloat64(registry.BufferRejected.WithLabelValues("orders", "end")), 1.0)

	out := logs.String()
	for _, want := range []string{`"buffer":"orders"`, `"component":"buffer"`, "buffer ended", "end after end rejected"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
