package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// memoryEntry stores a cached page with its timestamp.
type memoryEntry struct {
	result   *models.PageResult[models.Node]
	cachedAt time.Time
}

// MemoryCache is the default QueryCache backend, a TTL map guarded by a
// read-write mutex.
//
// The cache uses a double-check locking pattern: first RLock to check for
// a valid entry, then Lock to populate if needed. This optimizes for the
// common case (cache hit) while remaining correct under concurrency, and
// collapses concurrent misses for the same key into a single loader call.
type MemoryCache struct {
	entries  map[string]*memoryEntry
	mu       sync.RWMutex
	ttl      time.Duration
	recorder Recorder

	hits          atomic.Int64
	misses        atomic.Int64
	invalidations atomic.Int64
}

// NewMemoryCache creates an in-memory query cache.
//
// Parameters:
//   - ttl: How long pages stay fresh. Use DefaultTTL for the recommended
//     5-minute duration.
//   - recorder: Receives hit/miss/invalidation events, may be nil.
func NewMemoryCache(ttl time.Duration, recorder Recorder) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries:  make(map[string]*memoryEntry),
		ttl:      ttl,
		recorder: recorder,
	}
}

// Fetch returns the cached page for key, running the loader on a miss.
//
// Cache behavior:
//   - Cache hit (within TTL): Returns cached page immediately
//   - Cache miss or expired: Calls the loader, caches the page
//   - Loader errors are returned as-is and never cached
func (c *MemoryCache) Fetch(ctx context.Context, key Key, loader Loader) (*models.PageResult[models.Node], error) {
	k := key.String()

	// Fast path: check cache with read lock
	c.mu.RLock()
	if entry, ok := c.entries[k]; ok {
		if time.Since(entry.cachedAt) < c.ttl {
			c.mu.RUnlock()
			c.recordHit(key.Shape)
			return entry.result, nil
		}
	}
	c.mu.RUnlock()

	// Slow path: acquire write lock
	c.mu.Lock()

	// Double-check: another goroutine may have populated while we waited
	if entry, ok := c.entries[k]; ok {
		if time.Since(entry.cachedAt) < c.ttl {
			c.mu.Unlock()
			c.recordHit(key.Shape)
			return entry.result, nil
		}
	}

	result, err := loader(ctx)
	if err != nil {
		c.mu.Unlock()
		c.recordMiss(key.Shape)
		return nil, err
	}

	c.entries[k] = &memoryEntry{
		result:   result,
		cachedAt: time.Now(),
	}

	c.mu.Unlock()
	c.recordMiss(key.Shape)

	return result, nil
}

// Invalidate drops every entry belonging to the principal.
func (c *MemoryCache) Invalidate(ctx context.Context, principalID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prefix := principalPrefix(principalID)

	c.mu.Lock()
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()

	c.invalidations.Add(1)
	if c.recorder != nil {
		c.recorder.RecordInvalidation()
	}
	return nil
}

// Stats returns current cache statistics.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	size := int64(len(c.entries))
	c.mu.RUnlock()

	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Invalidations: c.invalidations.Load(),
		Size:          size,
	}
}

// Close releases the cache. The in-memory backend has nothing to release.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]*memoryEntry)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) recordHit(shape Shape) {
	c.hits.Add(1)
	if c.recorder != nil {
		c.recorder.RecordHit(string(shape))
	}
}

func (c *MemoryCache) recordMiss(shape Shape) {
	c.misses.Add(1)
	if c.recorder != nil {
		c.recorder.RecordMiss(string(shape))
	}
}
