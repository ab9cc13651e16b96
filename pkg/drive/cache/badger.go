package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// BadgerCache is a QueryCache backend persisted in BadgerDB. Pages survive
// restarts; freshness is delegated to badger's per-entry TTL and
// per-principal invalidation maps onto a prefix drop.
type BadgerCache struct {
	db       *badger.DB
	ttl      time.Duration
	recorder Recorder

	// gens counts invalidations per principal. A loader result is stored
	// only if the principal's generation is unchanged since the loader
	// started, so a page loaded before a mutation cannot land after the
	// prefix drop and get served until the TTL.
	genMu sync.Mutex
	gens  map[string]uint64

	hits          atomic.Int64
	misses        atomic.Int64
	invalidations atomic.Int64
}

// NewBadgerCache opens (or creates) a badger database at path and returns
// a cache backed by it.
func NewBadgerCache(path string, ttl time.Duration, recorder Recorder) (*BadgerCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache at %s: %w", path, err)
	}

	return &BadgerCache{
		db:       db,
		ttl:      ttl,
		recorder: recorder,
		gens:     make(map[string]uint64),
	}, nil
}

// Fetch returns the cached page for key, running the loader on a miss.
// Expired entries are reaped by badger itself; a missing key and an
// expired key look the same here.
func (c *BadgerCache) Fetch(ctx context.Context, key Key, loader Loader) (*models.PageResult[models.Node], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := []byte(key.String())

	var cached *models.PageResult[models.Node]
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			page, err := decodePage(val)
			if err != nil {
				return err
			}
			cached = page
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if cached != nil {
		c.recordHit(key.Shape)
		return cached, nil
	}

	gen := c.generation(key.PrincipalID)

	result, err := loader(ctx)
	if err != nil {
		c.recordMiss(key.Shape)
		return nil, err
	}

	data, err := encodePage(result)
	if err != nil {
		return nil, err
	}

	// An Invalidate that ran while the loader was in flight makes this
	// page stale before it is ever stored; skip the put and return the
	// result uncached.
	c.genMu.Lock()
	if c.gens[key.PrincipalID] == gen {
		err = c.db.Update(func(txn *badger.Txn) error {
			entry := badger.NewEntry(k, data).WithTTL(c.ttl)
			return txn.SetEntry(entry)
		})
	}
	c.genMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to store cache entry: %w", err)
	}

	c.recordMiss(key.Shape)
	return result, nil
}

func (c *BadgerCache) generation(principalID string) uint64 {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	return c.gens[principalID]
}

// Invalidate drops every entry belonging to the principal. DropPrefix
// blocks writes for its duration, which is acceptable for the coarse
// per-principal granularity used here.
func (c *BadgerCache) Invalidate(ctx context.Context, principalID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Bump before dropping. A concurrent Fetch either sees the new
	// generation and skips its put, or its put completed under genMu and
	// the drop below removes it.
	c.genMu.Lock()
	c.gens[principalID]++
	c.genMu.Unlock()

	if err := c.db.DropPrefix([]byte(principalPrefix(principalID))); err != nil {
		return fmt.Errorf("failed to invalidate cache for principal %s: %w", principalID, err)
	}

	c.invalidations.Add(1)
	if c.recorder != nil {
		c.recorder.RecordInvalidation()
	}
	return nil
}

// Stats returns current cache statistics. Size counts live keys, so it
// walks the keyspace without prefetching values.
func (c *BadgerCache) Stats() Stats {
	var size int64
	_ = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			size++
		}
		return nil
	})

	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Invalidations: c.invalidations.Load(),
		Size:          size,
	}
}

// Close closes the underlying badger database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

func (c *BadgerCache) recordHit(shape Shape) {
	c.hits.Add(1)
	if c.recorder != nil {
		c.recorder.RecordHit(string(shape))
	}
}

func (c *BadgerCache) recordMiss(shape Shape) {
	c.misses.Add(1)
	if c.recorder != nil {
		c.recorder.RecordMiss(string(shape))
	}
}

func encodePage(page *models.PageResult[models.Node]) ([]byte, error) {
	bytes, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cached page: %w", err)
	}
	return bytes, nil
}

func decodePage(bytes []byte) (*models.PageResult[models.Node], error) {
	var page models.PageResult[models.Node]
	if err := json.Unmarshal(bytes, &page); err != nil {
		return nil, fmt.Errorf("failed to decode cached page: %w", err)
	}
	return &page, nil
}
