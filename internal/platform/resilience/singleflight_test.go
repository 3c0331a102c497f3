package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlight_DeduplicatesConcurrentCalls(t *testing.T) {
	var group SingleFlight
	var calls atomic.Int32
	release := make(chan struct{})

	const waiters = 5
	var wg sync.WaitGroup
	var sharedCount atomic.Int32
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err, shared := group.Do("key", func() (any, error) {
				calls.Add(1)
				<-release
				return "result", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if value != "result" {
				t.Errorf("unexpected value: %v", value)
			}
			if shared {
				sharedCount.Add(1)
			}
		}()
	}

	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected fn to run once, ran %d times", got)
	}
	if got := sharedCount.Load(); got != waiters-1 {
		t.Fatalf("expected %d shared results, got %d", waiters-1, got)
	}
}

func TestSingleFlight_SequentialCallsRunIndependently(t *testing.T) {
	var group SingleFlight
	var calls atomic.Int32

	for i := 0; i < 2; i++ {
		_, err, shared := group.Do("key", func() (any, error) {
			calls.Add(1)
			return nil, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if shared {
			t.Fatalf("sequential call %d unexpectedly shared", i)
		}
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 executions, got %d", got)
	}
}
