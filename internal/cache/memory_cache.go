package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process CacheService for a single server
// instance (DEDUP_STORE=memory). Claims are lost on restart.
type MemoryCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]time.Time
}

var _ CacheService = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		now:     time.Now,
		entries: make(map[string]time.Time),
	}
}

func (m *MemoryCache) SetIfAbsent(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if expires, ok := m.entries[key]; ok && (expires.IsZero() || now.Before(expires)) {
		return false, nil
	}

	var expires time.Time
	if ttl > 0 {
		expires = now.Add(ttl)
	}
	m.entries[key] = expires
	return true, nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}
