package deferred

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vnykmshr/pullstream/internal/testutil"
)

func TestResolveOnce(t *testing.T) {
	d := New[string]()
	testutil.AssertEqual(t, d.IsResolved(), false)

	testutil.AssertEqual(t, d.Resolve("first"), true)
	testutil.AssertEqual(t, d.Resolve("second"), false)

	v, ok := d.Get()
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, v, "first")
}

func TestGetUnresolved(t *testing.T) {
	d := New[int]()
	v, ok := d.Get()
	testutil.AssertEqual(t, ok, false)
	testutil.AssertEqual(t, v, 0)
}

func TestWaitersObserveSameValue(t *testing.T) {
	d := New[int]()
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	const waiters = 8
	results := make([]int, waiters)
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := d.Wait(ctx)
			if err != nil {
				t.Errorf("waiter %d: %v", i, err)
				return
			}
			results[i] = v
		}(i)
	}

	time.Sleep(10 * time.Millisecond)
	d.Resolve(42)
	wg.Wait()

	for i, v := range results {
		if v != 42 {
			t.Errorf("waiter %d got %d, want 42", i, v)
		}
	}
}

func TestLateWaiterSeesCachedValue(t *testing.T) {
	d := Resolved("done")

	v, err := d.Wait(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v, "done")

	select {
	case <-d.Done():
	default:
		t.Fatal("Done channel should be closed")
	}
}

func TestWaitCancelled(t *testing.T) {
	d := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := d.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want DeadlineExceeded", err)
	}

	// Resolution after an abandoned wait is still observed by later waiters.
	d.Resolve(7)
	v, err := d.Wait(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v, 7)
}

func TestResolvedWinsOverCancelledContext(t *testing.T) {
	d := Resolved(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := d.Wait(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v, 1)
}

func TestConcurrentResolve(t *testing.T) {
	d := New[int]()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if d.Resolve(i) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	testutil.AssertEqual(t, wins, 1)
}
