package message

import (
	"container/list"
	"sync"
	"time"
)

// staticCache is the message builder's own TTL-and-capacity-bounded
// cache over rendered static parts. It is owned by the Builder, not a
// global (spec §9: "the message-body cache is an object owned by the
// message builder, not a global"), and is a separate instance from the
// dedup package's local cache despite the similar LRU-on-overflow shape
// — the two have distinct owners and distinct eviction triggers.
type staticCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List
}

type staticEntry struct {
	key       string
	value     string
	expiresAt time.Time
}

func newStaticCache(ttl time.Duration, maxEntries int) *staticCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &staticCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

// get returns the cached value for key if present and unexpired.
// Eviction by TTL runs inline on read, per spec §4.6/§9.
func (c *staticCache) get(key string, now time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return "", false
	}
	entry := el.Value.(*staticEntry)
	if now.After(entry.expiresAt) {
		c.order.Remove(el)
		delete(c.entries, key)
		return "", false
	}
	c.order.MoveToFront(el)
	return entry.value, true
}

// set inserts value under key, evicting the least recently used entry if
// the cache is at capacity. Eviction on insert runs inline, per spec §9.
func (c *staticCache) set(key, value string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*staticEntry)
		entry.value = value
		entry.expiresAt = now.Add(c.ttl)
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxEntries {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*staticEntry).key)
		}
	}

	el := c.order.PushFront(&staticEntry{key: key, value: value, expiresAt: now.Add(c.ttl)})
	c.entries[key] = el
}
