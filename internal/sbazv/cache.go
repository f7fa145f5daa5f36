package sbazv

import (
	"sync"
	"time"

	"github.com/klabast/gemeinde-portal/abfall-feed/internal/waste"
)

// Cache is the single in-process slot holding the most recent successful
// feed result. It is owned by the Client, guarded for concurrent fetches
// and deliberately not persisted: a restart starts empty and the fallback
// generator covers the gap.
type Cache struct {
	mu          sync.RWMutex
	collections []waste.Collection
	fetchedAt   time.Time
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Update replaces the cached batch with a copy of collections.
func (c *Cache) Update(collections []waste.Collection, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collections = append([]waste.Collection(nil), collections...)
	c.fetchedAt = fetchedAt
}

// Snapshot returns a copy of the cached batch and its fetch time. ok is
// false when the cache is empty.
func (c *Cache) Snapshot() (collections []waste.Collection, fetchedAt time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() {
		return nil, time.Time{}, false
	}
	return append([]waste.Collection(nil), c.collections...), c.fetchedAt, true
}

// Invalidate empties the cache unconditionally.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collections = nil
	c.fetchedAt = time.Time{}
}

// CacheStatus is the diagnostic view of the cache for the admin surface.
type CacheStatus struct {
	Exists     bool      `json:"exists"`
	FetchedAt  time.Time `json:"fetchedAt"`
	AgeMinutes int       `json:"ageMinutes"`
	Count      int       `json:"count"`
}

// Status describes the cache relative to now.
func (c *Cache) Status(now time.Time) CacheStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() {
		return CacheStatus{}
	}
	return CacheStatus{
		Exists:     true,
		FetchedAt:  c.fetchedAt,
		AgeMinutes: int(now.Sub(c.fetchedAt).Minutes()),
		Count:      len(c.collections),
	}
}
