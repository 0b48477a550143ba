package filter

import "github.com/factorydesk/ordertrack/pkg/domain/entities"

// ResultCache is a bounded FIFO cache of filter results keyed by a
// fingerprint of the record set and the filter spec. It cannot detect
// in-place mutation of a record slice it has seen before, so the owner
// of the record set must call Clear whenever the snapshot changes.
//
// The cache is not safe for concurrent writers; hosts that evaluate
// filters in parallel must serialize access externally.
type ResultCache struct {
	capacity int
	entries  map[string][]*entities.OrderRecord
	order    []string // insertion order, oldest first
}

// NewResultCache creates a cache holding at most capacity entries
func NewResultCache(capacity int) *ResultCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &ResultCache{
		capacity: capacity,
		entries:  make(map[string][]*entities.OrderRecord, capacity),
		order:    make([]string, 0, capacity),
	}
}

// Get returns the cached result for a key
func (c *ResultCache) Get(key string) ([]*entities.OrderRecord, bool) {
	result, ok := c.entries[key]
	return result, ok
}

// Put stores a result, evicting the oldest entry once at capacity
func (c *ResultCache) Put(key string, result []*entities.OrderRecord) {
	if _, exists := c.entries[key]; exists {
		c.entries[key] = result
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = result
	c.order = append(c.order, key)
}

// Clear drops every cached result. Callers must invoke this whenever the
// underlying record set is replaced or mutated out of band.
func (c *ResultCache) Clear() {
	c.entries = make(map[string][]*entities.OrderRecord, c.capacity)
	c.order = c.order[:0]
}

// Len returns the number of cached results
func (c *ResultCache) Len() int {
	return len(c.entries)
}
