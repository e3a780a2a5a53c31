// Package caching implements the TTL document cache sitting between
// the menu data gateway and the document store.
package caching

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GrooveMedia/groove-menu-go/pkg/config"
)

type entry struct {
	value     any
	storedAt  time.Time
	expiresAt time.Time
	sizeBytes int
}

// DocumentCache is a bounded in-memory TTL cache. Expired entries are
// removed lazily on read and in bulk by the cleanup worker.
type DocumentCache struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	maxItems int

	// nowFn is swapped in tests to drive expiry
	nowFn func() time.Time
}

// Stats is a point-in-time snapshot of cache occupancy.
type Stats struct {
	TotalItems  int           `json:"totalItems"`
	MemoryBytes int           `json:"memoryBytes"`
	OldestAge   time.Duration `json:"oldestAge"`
	NewestAge   time.Duration `json:"newestAge"`
}

func NewDocumentCache(maxItems int) *DocumentCache {
	if maxItems <= 0 {
		maxItems = config.MaxCacheItems
	}
	return &DocumentCache{
		entries:  make(map[string]*entry),
		maxItems: maxItems,
		nowFn:    time.Now,
	}
}

// BuildKey composes the canonical cache key for a data category, a
// scoping id, and optional call parameters.
func BuildKey(category, id string, params any) string {
	paramsJSON := "{}"
	if params != nil {
		if raw, err := json.Marshal(params); err == nil {
			paramsJSON = string(raw)
		}
	}
	return fmt.Sprintf("%s:%s:%s", category, id, paramsJSON)
}

// TTLForCategory returns the configured TTL for a data category,
// falling back to the default for categories without one.
func TTLForCategory(category string) time.Duration {
	switch category {
	case "business-info":
		return config.BusinessInfoTTL
	case "menus", "menu":
		return config.MenusTTL
	case "categories":
		return config.CategoriesTTL
	case "items":
		return config.ItemsTTL
	case "announcements":
		return config.AnnouncementsTTL
	case "schema-variant":
		return config.SchemaVariantTTL
	default:
		return config.DefaultCacheTTL
	}
}

// Get returns the cached value for key. An expired entry is deleted
// and reported as a miss, indistinguishable from never having existed.
func (c *DocumentCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.nowFn().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock, a concurrent Set may have
		// replaced the entry since the read above.
		if cur, still := c.entries[key]; still && cur == e {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores value under key. A ttl <= 0 falls back to the default.
func (c *DocumentCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = config.DefaultCacheTTL
	}

	size := 0
	if raw, err := json.Marshal(value); err == nil {
		size = len(raw)
	}

	now := c.nowFn()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{
		value:     value,
		storedAt:  now,
		expiresAt: now.Add(ttl),
		sizeBytes: size,
	}

	if len(c.entries) > c.maxItems {
		c.evictOldestLocked(len(c.entries) - c.maxItems)
	}
}

// evictOldestLocked drops the n oldest-stored entries. Caller holds
// the write lock.
func (c *DocumentCache) evictOldestLocked(n int) {
	type aged struct {
		key      string
		storedAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for key, e := range c.entries {
		all = append(all, aged{key, e.storedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].storedAt.Before(all[j].storedAt) })
	for i := 0; i < n && i < len(all); i++ {
		delete(c.entries, all[i].key)
	}
}

// Invalidate removes every entry whose key contains the substring and
// returns how many were removed.
func (c *DocumentCache) Invalidate(substring string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.Contains(key, substring) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Cleanup removes every expired entry and returns the count.
func (c *DocumentCache) Cleanup() int {
	now := c.nowFn()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Clear empties the cache entirely.
func (c *DocumentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

func (c *DocumentCache) Stats() Stats {
	now := c.nowFn()

	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{TotalItems: len(c.entries)}
	for _, e := range c.entries {
		stats.MemoryBytes += e.sizeBytes
		age := now.Sub(e.storedAt)
		if age > stats.OldestAge {
			stats.OldestAge = age
		}
		if stats.NewestAge == 0 || age < stats.NewestAge {
			stats.NewestAge = age
		}
	}
	return stats
}
