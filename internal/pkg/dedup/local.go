package dedup

import (
	"container/list"
	"sync"
	"time"
)

// localCache is a process-local, TTL-and-capacity-bounded front for the
// backing store, grounded on original_source's local_cache.py: checked
// first on reads, with LRU eviction once the entry cap is reached. It
// must never suppress a write to the backing store for a fresh key — see
// RedisStore.Record, which always writes through.
type localCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
}

type localEntry struct {
	key       string
	expiresAt time.Time
}

func newLocalCache(capacity int) *localCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &localCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// has reports whether key is present and unexpired as of now. An expired
// entry is evicted in place and reported absent.
func (c *localCache) has(key string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return false
	}
	entry := el.Value.(*localEntry)
	if now.After(entry.expiresAt) {
		c.order.Remove(el)
		delete(c.entries, key)
		return false
	}
	c.order.MoveToFront(el)
	return true
}

// set records key with the given absolute expiry, evicting the least
// recently used entry if the cache is at capacity.
func (c *localCache) set(key string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*localEntry).expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*localEntry).key)
		}
	}

	el := c.order.PushFront(&localEntry{key: key, expiresAt: expiresAt})
	c.entries[key] = el
}
