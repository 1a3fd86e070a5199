// Package cache persists a small most-recent-first mirror of classification
// results so a device can show its latest activity offline. It is bounded
// and never the system of record.
package cache

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/medwaste/classify-be/internal/classifier"
)

// Capacity is the fixed number of results the cache retains. Adding a
// result beyond it evicts the oldest entry.
const Capacity = 20

// RecentCache is a persisted, bounded, newest-first list of classification
// results.
type RecentCache struct {
	path string

	mu      sync.Mutex
	entries []classifier.Result
}

// Open loads the cache file at path if it exists. A missing or corrupt file
// starts an empty cache rather than failing; the mirror is best effort.
func Open(path string) *RecentCache {
	c := &RecentCache{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var entries []classifier.Result
	if err := json.Unmarshal(data, &entries); err != nil {
		return c
	}
	if len(entries) > Capacity {
		entries = entries[:Capacity]
	}
	c.entries = entries
	return c
}

// Add prepends a result, evicting the oldest entry past capacity, and
// persists the new list.
func (c *RecentCache) Add(result classifier.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]classifier.Result, 0, len(c.entries)+1)
	entries = append(entries, result)
	entries = append(entries, c.entries...)
	if len(entries) > Capacity {
		entries = entries[:Capacity]
	}
	c.entries = entries

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}

// All returns the cached results, newest first.
func (c *RecentCache) All() []classifier.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]classifier.Result, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of cached results.
func (c *RecentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
