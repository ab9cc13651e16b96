// Package cache provides the read-through query cache for listing-shaped
// operations (folder listings, search, trash).
//
// Cached values are whole result pages keyed by principal, operation shape
// and parameters. Invalidation is deliberately coarse: any mutation by a
// principal drops every entry belonging to that principal, which keeps the
// invariant simple (a mutation is never followed by a stale read) at the
// cost of extra misses.
//
// Two backends are provided: an in-memory map (default) and a BadgerDB
// backed cache that survives restarts.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// DefaultTTL is the default time-to-live for cached pages.
// 5 minutes balances freshness with reduced database load.
const DefaultTTL = 5 * time.Minute

// Shape identifies the operation a cached page belongs to.
type Shape string

const (
	// ShapeList caches folder listings.
	ShapeList Shape = "list"

	// ShapeSearch caches name searches.
	ShapeSearch Shape = "search"

	// ShapeTrash caches trash listings.
	ShapeTrash Shape = "trash"
)

// Key addresses one cached page. Params carries the shape-specific
// argument (parent path for listings, term for searches).
type Key struct {
	PrincipalID string
	Shape       Shape
	Params      string
	Page        models.Page
}

// String serializes the key. The principal id comes first so that all of a
// principal's entries share a common prefix; per-principal invalidation is
// a prefix operation.
func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s|p%d|s%d", k.PrincipalID, k.Shape, k.Params, k.Page.Number, k.Page.Size)
}

// principalPrefix is the common prefix of every key a principal owns.
func principalPrefix(principalID string) string {
	return principalID + "|"
}

// Loader produces a page on a cache miss.
type Loader func(ctx context.Context) (*models.PageResult[models.Node], error)

// Stats contains query cache statistics.
type Stats struct {
	// Hits is the number of cache hits.
	Hits int64

	// Misses is the number of cache misses.
	Misses int64

	// Invalidations is the number of per-principal invalidations.
	Invalidations int64

	// Size is the current number of entries in the cache.
	Size int64
}

// Recorder receives cache events for metrics export. Implementations live
// outside this package; a nil Recorder disables recording.
type Recorder interface {
	RecordHit(shape string)
	RecordMiss(shape string)
	RecordInvalidation()
}

// QueryCache is the read-through cache consumed by the lifecycle service.
//
// Fetch returns the cached page for key when present and fresh, and
// otherwise runs the loader and stores its result. Loader errors are
// returned as-is and never cached. Invalidate drops every entry belonging
// to the principal; mutations call it synchronously before reporting
// success.
type QueryCache interface {
	Fetch(ctx context.Context, key Key, loader Loader) (*models.PageResult[models.Node], error)
	Invalidate(ctx context.Context, principalID string) error
	Stats() Stats
	Close() error
}
