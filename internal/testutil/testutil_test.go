package testutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEventually(t *testing.T) {
	t.Run("condition met immediately", func(t *testing.T) {
		called := false
		Eventually(t, func() bool {
			called = true
			return true
		}, 100*time.Millisecond, 10*time.Millisecond)

		if !called {
			t.Error("condition function should be called")
		}
	})

	t.Run("condition met after delay", func(t *testing.T) {
		var counter int32
		go func() {
			time.Sleep(50 * time.Millisecond)
			atomic.StoreInt32(&counter, 1)
		}()

		Eventually(t, func() bool {
			return atomic.LoadInt32(&counter) == 1
		}, 500*time.Millisecond, 10*time.Millisecond)
	})
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(t)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("context should have a deadline")
	}
	if time.Until(deadline) > TestTimeout {
		t.Errorf("deadline too far in the future: %v", time.Until(deadline))
	}
}

func TestCountingSequence(t *testing.T) {
	s := NewCountingSequence(1, 2)
	ctx := context.Background()

	v, ok, err := s.Next(ctx)
	AssertNoError(t, err)
	AssertEqual(t, ok, true)
	AssertEqual(t, v, 1)

	_, _, _ = s.Next(ctx)
	_, ok, err = s.Next(ctx)
	AssertNoError(t, err)
	AssertEqual(t, ok, false)
	AssertEqual(t, s.Calls(), int64(3))
}

func TestFailingSequence(t *testing.T) {
	boom := errors.New("boom")
	s := &FailingSequence[string]{Items: []string{"a"}, Err: boom}

	v, ok, err := s.Next(context.Background())
	AssertNoError(t, err)
	AssertEqual(t, ok, true)
	AssertEqual(t, v, "a")

	_, ok, err = s.Next(context.Background())
	AssertEqual(t, ok, false)
	AssertErrorIs(t, err, boom)
}

func TestRecorder(t *testing.T) {
	var r Recorder[int]
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Record(i)
		}(i)
	}
	wg.Wait()
	AssertEqual(t, r.Len(), 10)
	AssertEqual(t, len(r.Values()), 10)
}

func TestAssertNoError(t *testing.T) {
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	AssertError(t, errors.New("test error"))
}

func TestAssertEqual(t *testing.T) {
	AssertEqual(t, 1, 1)
	AssertEqual(t, "a", "a")
	AssertSliceEqual(t, []int{1, 2}, []int{1, 2})
	AssertSliceEqual[int](t, nil, []int{})
}

func TestAssertNotEqual(t *testing.T) {
	AssertNotEqual(t, 1, 2)
}
