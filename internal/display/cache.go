package display

import "sync"

// Cache memoizes derived display values by card id. Entries are computed
// at most once and never evicted: card data is immutable once fetched and
// the cache lives only for the process, so unbounded growth is an accepted
// limitation rather than a leak to paper over.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]V
}

// NewCache returns an empty cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]V)}
}

// GetOrCompute returns the cached value for key, invoking compute and
// storing its result only on the first call for that key.
func (c *Cache[V]) GetOrCompute(key string, compute func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries[key]; ok {
		return v
	}
	v := compute()
	c.entries[key] = v
	return v
}

// Invalidate drops the entry for key, if any.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
