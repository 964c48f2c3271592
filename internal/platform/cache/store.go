package cache

import (
	"context"
	"errors"
	"time"
)

var ErrLoaderRequired = errors.New("cache loader is required")

// Loader produces the encoded value for a key on a miss.
type Loader func(ctx context.Context) ([]byte, error)

// Store is an explicit read-through cache. Values are opaque bytes so that
// in-process and remote backends behave the same.
type Store interface {
	// GetOrRefresh returns the cached value for key, calling load on a miss
	// or after ttl has elapsed. Concurrent misses for one key share a load.
	GetOrRefresh(ctx context.Context, key string, ttl time.Duration, load Loader) ([]byte, error)
	Invalidate(ctx context.Context, keys ...string) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}
