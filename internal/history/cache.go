// Package history keeps the bounded most-recent-first list of committed
// searches per owner.
package history

import (
	"slices"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/textmatch"
)

// Cache is a bounded list of history entries, most recent first. Recording
// a query that is already present moves it to the front; recording past
// capacity evicts the oldest entry. Cache is not safe for concurrent use.
type Cache struct {
	capacity int
	entries  []domain.SearchHistoryEntry
}

// NewCache returns an empty cache. A capacity <= 0 uses MaxHistoryEntries.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = domain.MaxHistoryEntries
	}
	return &Cache{capacity: capacity}
}

// FromEntries builds a cache seeded with entries, most recent first.
// Duplicates and entries beyond capacity are dropped.
func FromEntries(capacity int, entries []domain.SearchHistoryEntry) *Cache {
	c := NewCache(capacity)
	for i := len(entries) - 1; i >= 0; i-- {
		c.Record(entries[i])
	}
	return c
}

// Record inserts e at the front.
func (c *Cache) Record(e domain.SearchHistoryEntry) {
	key := textmatch.Normalize(e.Query)
	c.entries = slices.DeleteFunc(c.entries, func(old domain.SearchHistoryEntry) bool {
		return textmatch.Normalize(old.Query) == key
	})
	c.entries = slices.Insert(c.entries, 0, e)
	if len(c.entries) > c.capacity {
		c.entries = c.entries[:c.capacity]
	}
}

// Entries returns a copy of the entries, most recent first.
func (c *Cache) Entries() []domain.SearchHistoryEntry {
	out := make([]domain.SearchHistoryEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Cache) Len() int { return len(c.entries) }

// Clear empties the cache.
func (c *Cache) Clear() { c.entries = nil }
