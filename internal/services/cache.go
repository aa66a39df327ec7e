// Package services – listing snapshot cache.
//
// The cache memoizes exactly one view: the unfiltered catalogue listing
// in collated order. Any filter, non-default page, or non-default page
// size bypasses it entirely. A successful write invalidates it
// unconditionally; staleness never survives a create.
package services

import (
	"sync"
	"time"

	"github.com/isimkutusu/go-names-backend/internal/domain"
)

// ListingCache is a time-bounded snapshot of the unfiltered catalogue.
// Safe for concurrent use; constructed once at process start and injected
// into the NameService (no package-level state, so tests get a fresh one
// per instance).
type ListingCache struct {
	mu         sync.RWMutex
	data       []domain.Name
	capturedAt time.Time
	ttl        time.Duration

	// now is a clock seam for tests.
	now func() time.Time
}

// NewListingCache builds an empty cache with the given TTL.
func NewListingCache(ttl time.Duration) *ListingCache {
	return &ListingCache{ttl: ttl, now: time.Now}
}

// Get returns the cached snapshot when it is still within TTL. The
// returned slice is the shared snapshot; callers must not mutate it.
func (c *ListingCache) Get() ([]domain.Name, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil || c.now().Sub(c.capturedAt) >= c.ttl {
		return nil, false
	}
	return c.data, true
}

// Put stores a fresh snapshot.
func (c *ListingCache) Put(records []domain.Name) {
	c.mu.Lock()
	c.data = records
	c.capturedAt = c.now()
	c.mu.Unlock()
}

// Invalidate drops the snapshot regardless of age.
func (c *ListingCache) Invalidate() {
	c.mu.Lock()
	c.data = nil
	c.mu.Unlock()
}
