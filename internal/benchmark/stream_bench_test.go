package benchmark

import (
	"context"
	"testing"

	"github.com/vnykmshr/pullstream/pkg/streaming/seq"
	"github.com/vnykmshr/pullstream/pkg/streaming/stream"
)

func intRange(size int) []int {
	data := make([]int, size)
	for i := range data {
		data[i] = i
	}
	return data
}

// BenchmarkFromSlice measures pulling a slice-backed stream to the end.
func BenchmarkFromSlice(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		data := intRange(size)

		b.Run(sizeLabel(size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = stream.FromSlice(data).ToSlice(context.Background())
			}
		})
	}
}

// BenchmarkFilter measures filter operation performance.
func BenchmarkFilter(b *testing.B) {
	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		data := intRange(size)

		b.Run(sizeLabel(size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				s := stream.FromSlice(data).
					Filter(func(n int) bool { return n%2 == 0 })
				_, _ = s.ToSlice(context.Background())
			}
		})
	}
}

// BenchmarkMap measures map operation performance.
func BenchmarkMap(b *testing.B) {
	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		data := intRange(size)

		b.Run(sizeLabel(size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				s := stream.FromSlice(data).
					Map(func(n int) int { return n * 2 })
				_, _ = s.ToSlice(context.Background())
			}
		})
	}
}

// BenchmarkChainedOperations measures a filter, map and take pipeline.
func BenchmarkChainedOperations(b *testing.B) {
	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		data := intRange(size)

		b.Run(sizeLabel(size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				s := stream.FromSlice(data).
					Filter(func(n int) bool { return n%2 == 0 }).
					Map(func(n int) int { return n * 3 }).
					Take(size / 4)
				_, _ = s.ToSlice(context.Background())
			}
		})
	}
}

// BenchmarkFlatMap measures expanding every element into a short sequence.
func BenchmarkFlatMap(b *testing.B) {
	data := intRange(1000)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s := stream.FlatMapTo[int, int](stream.FromSlice(data), func(n int) seq.Sequence[int] {
			return seq.FromSlice([]int{n, n})
		})
		_, _ = s.ToSlice(context.Background())
	}
}

// BenchmarkReduce measures reduce operation performance.
func BenchmarkReduce(b *testing.B) {
	data := intRange(1000)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = stream.FromSlice(data).Reduce(context.Background(), 0, func(acc, n int) int {
			return acc + n
		})
	}
}

// BenchmarkAll measures range-over-func iteration.
func BenchmarkAll(b *testing.B) {
	data := intRange(1000)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sum := 0
		for v, err := range stream.FromSlice(data).All(context.Background()) {
			if err != nil {
				b.Fatal(err)
			}
			sum += v
		}
		_ = sum
	}
}

// BenchmarkMerge measures merging several sources through a buffer.
func BenchmarkMerge(b *testing.B) {
	data := intRange(1000)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ctx := context.Background()
		s := seq.Merge(ctx, seq.FromSlice(data), seq.FromSlice(data), seq.FromSlice(data))
		_, _ = seq.Collect(ctx, s)
	}
}

// sizeLabel returns a readable label for benchmark sizes.
func sizeLabel(size int) string {
	switch {
	case size >= 10000:
		return "10k"
	case size >= 1000:
		return "1k"
	case size >= 100:
		return "100"
	default:
		return "10"
	}
}
