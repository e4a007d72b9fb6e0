// Package memo provides a small generic memoization cache with a soft entry
// limit. Derived geometry (chain tessellations, winding input) is cheap to
// rebuild but rebuilt often during part detection; the cache keeps the hot
// entries around without growing unbounded on large drawings.
package memo

import "sync"

// Cache is a generic memoization cache with soft-limit eviction.
// When the cache exceeds softLimit, least recently used entries are evicted.
//
// Cache is safe for concurrent use and must not be copied after creation.
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*entry[V]
	softLimit int
	tick      int64 // monotonic access counter
}

type entry[V any] struct {
	value V
	atime int64
}

// New creates a cache with the given soft limit. A limit of 0 means
// unlimited.
func New[K comparable, V any](softLimit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*entry[V]),
		softLimit: softLimit,
	}
}

// Get retrieves a value. Returns (zero, false) on a miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.tick++
	e.atime = c.tick
	return e.value, true
}

// GetOrCreate returns the cached value for key, calling create to fill a
// miss. create runs under the cache lock so a key is only built once.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.tick++
		e.atime = c.tick
		return e.value
	}

	v := create()
	c.tick++
	c.entries[key] = &entry[V]{value: v, atime: c.tick}
	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		c.evictOldest()
	}
	return v
}

// Invalidate removes a single key.
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*entry[V])
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldest removes the least recently used entry. Called with mu held.
func (c *Cache[K, V]) evictOldest() {
	var oldestKey K
	oldest := int64(-1)
	for k, e := range c.entries {
		if oldest < 0 || e.atime < oldest {
			oldest = e.atime
			oldestKey = k
		}
	}
	if oldest >= 0 {
		delete(c.entries, oldestKey)
	}
}
