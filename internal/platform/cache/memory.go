package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore keeps values in process. Invalidation bumps a per-key
// generation so a load that started before it cannot repopulate stale data.
type MemoryStore struct {
	mu          sync.RWMutex
	entries     map[string]entry
	generations map[string]uint64
	flight      singleflight.Group
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:     make(map[string]entry),
		generations: make(map[string]uint64),
		now:         time.Now,
	}
}

func (s *MemoryStore) generation(key string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generations[key]
}

func (s *MemoryStore) get(key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (s *MemoryStore) set(key string, value []byte, ttl time.Duration, gen uint64) {
	expiresAt := time.Time{}
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	if s.generations[key] == gen {
		s.entries[key] = entry{value: value, expiresAt: expiresAt}
	}
	s.mu.Unlock()
}

func (s *MemoryStore) GetOrRefresh(ctx context.Context, key string, ttl time.Duration, load Loader) ([]byte, error) {
	if load == nil {
		return nil, ErrLoaderRequired
	}
	if key == "" {
		return load(ctx)
	}
	if value, ok := s.get(key); ok {
		return value, nil
	}

	out, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.get(key); ok {
			return cached, nil
		}
		gen := s.generation(key)
		loaded, loadErr := load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.set(key, loaded, ttl, gen)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func (s *MemoryStore) Invalidate(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.entries, key)
		s.generations[key]++
	}
	s.mu.Unlock()
	for _, key := range keys {
		s.flight.Forget(key)
	}
	return nil
}

func (s *MemoryStore) InvalidatePrefix(_ context.Context, prefix string) error {
	if prefix == "" {
		return nil
	}
	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			s.generations[key]++
			s.flight.Forget(key)
		}
	}
	s.mu.Unlock()
	return nil
}
