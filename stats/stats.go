// Package stats implements C7: a two-level category/id accumulator fed by
// the wire's StatsFull (replace) and StatsUpdate (incremental delta)
// options.
package stats

import (
	"sort"
	"sync"

	"github.com/go-mclib/mcio/types"
)

// Cache holds the accumulated stat counters, keyed by category id then
// stat id. The zero value is ready to use. Safe for concurrent use, since
// the environment and any rendering goroutine may read it while a fresh
// observation is being folded in.
type Cache struct {
	mu     sync.RWMutex
	values map[string]map[string]int
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{values: make(map[string]map[string]int)}
}

// ApplyFull replaces the entire cache contents with full.
func (c *Cache) ApplyFull(full *types.StatsFull) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]map[string]int, len(full.Categories))
	for _, cat := range full.Categories {
		ids := make(map[string]int, len(cat.Stats))
		for _, item := range cat.Stats {
			ids[item.ID] = item.Value
		}
		c.values[cat.ID] = ids
	}
}

// ApplyUpdate increments each (category, id) entry named in update by its
// delta value, defaulting a missing entry's prior value to 0.
func (c *Cache) ApplyUpdate(update *types.StatsUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]map[string]int)
	}
	for _, cat := range update.Categories {
		ids, ok := c.values[cat.ID]
		if !ok {
			ids = make(map[string]int)
			c.values[cat.ID] = ids
		}
		for _, item := range cat.Stats {
			ids[item.ID] += item.Value
		}
	}
}

// Get returns the current value for (category, id), or 0 if absent.
func (c *Cache) Get(category, id string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids, ok := c.values[category]
	if !ok {
		return 0
	}
	return ids[id]
}

// Categories returns the set of category ids currently populated, sorted
// for deterministic iteration.
func (c *Cache) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.values))
	for cat := range c.values {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a defensive copy of the full cache contents, category ->
// id -> value, for folding into an environment's info dict.
func (c *Cache) Snapshot() map[string]map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]map[string]int, len(c.values))
	for cat, ids := range c.values {
		copied := make(map[string]int, len(ids))
		for id, v := range ids {
			copied[id] = v
		}
		out[cat] = copied
	}
	return out
}
