package dedup

import (
	"context"
	"sync"
	"time"
)

// MemStore is an in-process Store implementation with no backing
// service. It exists for tests and for local development without a
// Redis instance; it honors the same TTL and exact-membership contract
// as RedisStore, just without the local/backing two-level split (there
// is nothing to front here).
type MemStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	cursor  string
	hasCur  bool
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]time.Time)}
}

func (s *MemStore) ExistsAny(ctx context.Context, keys ...string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, k := range keys {
		if exp, ok := s.entries[k]; ok {
			if now.Before(exp) {
				return true, nil
			}
			delete(s.entries, k)
		}
	}
	return false, nil
}

func (s *MemStore) Record(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Second
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if exp, ok := s.entries[key]; ok && now.Before(exp) {
		return nil
	}
	s.entries[key] = now.Add(ttl)
	return nil
}

func (s *MemStore) SaveCursor(ctx context.Context, cursor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = cursor
	s.hasCur = true
	return nil
}

func (s *MemStore) LoadCursor(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, s.hasCur, nil
}
