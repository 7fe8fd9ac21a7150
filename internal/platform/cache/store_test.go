package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errUnexpectedValue = errors.New("unexpected loaded value")

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "ladder", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "ladder:office-ping-pong-2026", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "ladder" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ServesCachedValue(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "league:l1", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "league:l1", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiredEntryIsReloaded(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Nanosecond)

	store.Set(context.Background(), "league:l1", "stale")
	time.Sleep(time.Millisecond)

	if _, ok := store.Get(context.Background(), "league:l1"); ok {
		t.Fatal("expired entry should not be served")
	}
}

func TestStore_DeletePrefixDropsMatchingKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "ladder:l1", 1)
	store.Set(ctx, "ladder:l2", 2)
	store.Set(ctx, "league:l1", 3)

	store.DeletePrefix(ctx, "ladder:")

	if _, ok := store.Get(ctx, "ladder:l1"); ok {
		t.Fatal("ladder:l1 should be gone")
	}
	if _, ok := store.Get(ctx, "ladder:l2"); ok {
		t.Fatal("ladder:l2 should be gone")
	}
	if _, ok := store.Get(ctx, "league:l1"); !ok {
		t.Fatal("league:l1 should survive")
	}
}
