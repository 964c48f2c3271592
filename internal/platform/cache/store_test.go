package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStore_GetOrRefresh_SharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	var calls atomic.Int32

	load := func(context.Context) ([]byte, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []byte("value"), nil
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
			v, err := store.GetOrRefresh(context.Background(), "same-key", time.Minute, load)
			if err != nil {
				errCh <- err
				return
			}
			if string(v) != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestMemoryStore_ExpiresAndInvalidates(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	now := time.Date(2025, 9, 7, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	var calls atomic.Int32
	load := func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte("v"), nil
	}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := store.GetOrRefresh(ctx, "k", 15*time.Second, load); err != nil {
			t.Fatalf("get or refresh: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times before expiry, want 1", got)
	}

	now = now.Add(15 * time.Second)
	if _, err := store.GetOrRefresh(ctx, "k", 15*time.Second, load); err != nil {
		t.Fatalf("get or refresh after expiry: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times after expiry, want 2", got)
	}

	if err := store.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := store.GetOrRefresh(ctx, "k", 15*time.Second, load); err != nil {
		t.Fatalf("get or refresh after invalidate: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("loader called %d times after invalidate, want 3", got)
	}
}

func TestMemoryStore_LoaderErrorIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	boom := errors.New("boom")
	if _, err := store.GetOrRefresh(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	got, err := store.GetOrRefresh(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	if err != nil || string(got) != "ok" {
		t.Fatalf("unexpected result after failed load: %q %v", got, err)
	}
}

func TestRedisStore_GetOrRefreshAndInvalidatePrefix(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, "picks")
	ctx := context.Background()
	var calls atomic.Int32
	load := func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte(`{"ok":true}`), nil
	}

	for i := 0; i < 2; i++ {
		got, err := store.GetOrRefresh(ctx, "submissions:c1:3", 15*time.Second, load)
		if err != nil {
			t.Fatalf("get or refresh: %v", err)
		}
		if string(got) != `{"ok":true}` {
			t.Fatalf("unexpected value: %s", got)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
	if !mr.Exists("picks:submissions:c1:3") {
		t.Fatalf("expected namespaced key in redis")
	}

	mr.FastForward(16 * time.Second)
	if _, err := store.GetOrRefresh(ctx, "submissions:c1:3", 15*time.Second, load); err != nil {
		t.Fatalf("get or refresh after ttl: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times after ttl, want 2", got)
	}

	if err := store.InvalidatePrefix(ctx, "submissions:c1:"); err != nil {
		t.Fatalf("invalidate prefix: %v", err)
	}
	if mr.Exists("picks:submissions:c1:3") {
		t.Fatalf("expected key removed by prefix invalidation")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
