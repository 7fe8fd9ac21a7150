package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions atomic.Int32
	var shared atomic.Int32

	const callers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, wasShared := g.Do("introspect:abc", func() (any, error) {
				executions.Add(1)
				time.Sleep(20 * time.Millisecond)
				return "principal", nil
			})
			if err != nil {
				t.Errorf("do failed: %v", err)
			}
			if v != "principal" {
				t.Errorf("unexpected value: %v", v)
			}
			if wasShared {
				shared.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("loader should run once, ran %d times", got)
	}
	if got := shared.Load(); got != callers-1 {
		t.Fatalf("expected %d shared results, got %d", callers-1, got)
	}
}

func TestSingleFlight_KeysAreIndependent(t *testing.T) {
	var g SingleFlight

	a, err, _ := g.Do("a", func() (any, error) { return 1, nil })
	if err != nil || a != 1 {
		t.Fatalf("key a: %v %v", a, err)
	}
	b, err, _ := g.Do("b", func() (any, error) { return 2, nil })
	if err != nil || b != 2 {
		t.Fatalf("key b: %v %v", b, err)
	}
}
