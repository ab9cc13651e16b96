package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// Test helpers

// countingLoader returns a fixed page and counts invocations.
type countingLoader struct {
	calls atomic.Int64
	page  *models.PageResult[models.Node]
	err   error
}

func newCountingLoader(total int64) *countingLoader {
	return &countingLoader{
		page: &models.PageResult[models.Node]{
			Items:      []models.Node{{Name: "report.pdf"}},
			TotalItems: total,
			Page:       1,
			PageSize:   20,
			TotalPages: 1,
		},
	}
}

func (l *countingLoader) load(_ context.Context) (*models.PageResult[models.Node], error) {
	l.calls.Add(1)
	if l.err != nil {
		return nil, l.err
	}
	return l.page, nil
}

func listKey(principalID, parentPath string) Key {
	return Key{
		PrincipalID: principalID,
		Shape:       ShapeList,
		Params:      parentPath,
		Page:        models.Page{Number: 1, Size: 20},
	}
}

// Key tests

func TestKey_StringIncludesAllComponents(t *testing.T) {
	k := Key{
		PrincipalID: "alice",
		Shape:       ShapeSearch,
		Params:      "quarterly",
		Page:        models.Page{Number: 3, Size: 50},
	}

	got := k.String()
	want := "alice|search|quarterly|p3|s50"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestKey_PrincipalOwnsCommonPrefix(t *testing.T) {
	keys := []Key{
		listKey("alice", "docs"),
		{PrincipalID: "alice", Shape: ShapeSearch, Params: "tax", Page: models.Page{Number: 1, Size: 20}},
		{PrincipalID: "alice", Shape: ShapeTrash, Page: models.Page{Number: 2, Size: 10}},
	}

	for _, k := range keys {
		if !strings.HasPrefix(k.String(), principalPrefix("alice")) {
			t.Fatalf("key %q does not carry the principal prefix", k.String())
		}
	}

	other := listKey("alice2", "docs")
	if strings.HasPrefix(other.String(), principalPrefix("alice")) {
		t.Fatalf("key %q must not match another principal's prefix", other.String())
	}
}

// MemoryCache tests

func TestMemoryCache_FirstFetchIsCacheMiss(t *testing.T) {
	c := NewMemoryCache(DefaultTTL, nil)
	defer func() { _ = c.Close() }()

	loader := newCountingLoader(1)
	result, err := c.Fetch(context.Background(), listKey("alice", "docs"), loader.load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalItems != 1 {
		t.Fatalf("expected TotalItems=1, got %d", result.TotalItems)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected 1 loader call, got %d", loader.calls.Load())
	}

	stats := c.Stats()
	if stats.Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", stats.Misses)
	}
	if stats.Hits != 0 {
		t.Fatalf("expected 0 hits, got %d", stats.Hits)
	}
}

func TestMemoryCache_SecondFetchIsCacheHit(t *testing.T) {
	c := NewMemoryCache(DefaultTTL, nil)
	defer func() { _ = c.Close() }()

	loader := newCountingLoader(1)
	key := listKey("alice", "docs")

	_, _ = c.Fetch(context.Background(), key, loader.load)

	result, err := c.Fetch(context.Background(), key, loader.load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalItems != 1 {
		t.Fatalf("expected TotalItems=1, got %d", result.TotalItems)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected 1 loader call (cached), got %d", loader.calls.Load())
	}

	stats := c.Stats()
	if stats.Hits != 1 {
		t.Fatalf("expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestMemoryCache_ExpiredEntryTriggersReload(t *testing.T) {
	// Very short TTL for testing
	c := NewMemoryCache(1*time.Millisecond, nil)
	defer func() { _ = c.Close() }()

	loader := newCountingLoader(1)
	key := listKey("alice", "docs")

	_, _ = c.Fetch(context.Background(), key, loader.load)

	time.Sleep(5 * time.Millisecond)

	_, _ = c.Fetch(context.Background(), key, loader.load)

	if loader.calls.Load() != 2 {
		t.Fatalf("expected 2 loader calls (expired cache), got %d", loader.calls.Load())
	}
}

func TestMemoryCache_LoaderErrorsAreNotCached(t *testing.T) {
	c := NewMemoryCache(DefaultTTL, nil)
	defer func() { _ = c.Close() }()

	loader := newCountingLoader(1)
	loader.err = errors.New("database unreachable")
	key := listKey("alice", "docs")

	if _, err := c.Fetch(context.Background(), key, loader.load); err == nil {
		t.Fatal("expected loader error")
	}

	// Once the loader recovers the next fetch must reach it
	loader.err = nil
	result, err := c.Fetch(context.Background(), key, loader.load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected a page after loader recovery")
	}
	if loader.calls.Load() != 2 {
		t.Fatalf("expected 2 loader calls, got %d", loader.calls.Load())
	}
}

func TestMemoryCache_InvalidateDropsOnlyThatPrincipal(t *testing.T) {
	c := NewMemoryCache(DefaultTTL, nil)
	defer func() { _ = c.Close() }()

	aliceLoader := newCountingLoader(1)
	bobLoader := newCountingLoader(2)

	_, _ = c.Fetch(context.Background(), listKey("alice", "docs"), aliceLoader.load)
	_, _ = c.Fetch(context.Background(), listKey("bob", "docs"), bobLoader.load)

	if err := c.Invalidate(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Alice reloads, Bob still hits
	_, _ = c.Fetch(context.Background(), listKey("alice", "docs"), aliceLoader.load)
	_, _ = c.Fetch(context.Background(), listKey("bob", "docs"), bobLoader.load)

	if aliceLoader.calls.Load() != 2 {
		t.Fatalf("expected 2 loader calls for alice, got %d", aliceLoader.calls.Load())
	}
	if bobLoader.calls.Load() != 1 {
		t.Fatalf("expected 1 loader call for bob, got %d", bobLoader.calls.Load())
	}

	stats := c.Stats()
	if stats.Invalidations != 1 {
		t.Fatalf("expected 1 invalidation, got %d", stats.Invalidations)
	}
}

func TestMemoryCache_InvalidateIgnoresPrefixSharingPrincipals(t *testing.T) {
	c := NewMemoryCache(DefaultTTL, nil)
	defer func() { _ = c.Close() }()

	loader := newCountingLoader(1)
	otherLoader := newCountingLoader(2)

	// "alice" is a string prefix of "alice2"; only exact principal matches drop
	_, _ = c.Fetch(context.Background(), listKey("alice", "docs"), loader.load)
	_, _ = c.Fetch(context.Background(), listKey("alice2", "docs"), otherLoader.load)

	if err := c.Invalidate(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _ = c.Fetch(context.Background(), listKey("alice2", "docs"), otherLoader.load)
	if otherLoader.calls.Load() != 1 {
		t.Fatalf("expected alice2 entry to survive, got %d loader calls", otherLoader.calls.Load())
	}
}

func TestMemoryCache_ConcurrentMissesCollapse(t *testing.T) {
	c := NewMemoryCache(DefaultTTL, nil)
	defer func() { _ = c.Close() }()

	loader := newCountingLoader(1)
	key := listKey("alice", "docs")

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)

	var errCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			result, err := c.Fetch(context.Background(), key, loader.load)
			if err != nil {
				errCount.Add(1)
				return
			}
			if result.TotalItems != 1 {
				errCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if errCount.Load() != 0 {
		t.Fatalf("expected 0 errors, got %d", errCount.Load())
	}

	// The loader should have run once; concurrent misses wait on the write
	// lock and find the entry on the double-check.
	if loader.calls.Load() != 1 {
		t.Fatalf("expected 1 loader call with collapsed misses, got %d", loader.calls.Load())
	}
}

func TestMemoryCache_StatsTracksSize(t *testing.T) {
	c := NewMemoryCache(DefaultTTL, nil)
	defer func() { _ = c.Close() }()

	loader := newCountingLoader(1)
	_, _ = c.Fetch(context.Background(), listKey("alice", "docs"), loader.load)
	_, _ = c.Fetch(context.Background(), listKey("alice", "photos"), loader.load)
	_, _ = c.Fetch(context.Background(), listKey("bob", "docs"), loader.load)

	if got := c.Stats().Size; got != 3 {
		t.Fatalf("expected 3 entries, got %d", got)
	}

	_ = c.Invalidate(context.Background(), "alice")

	if got := c.Stats().Size; got != 1 {
		t.Fatalf("expected 1 entry after invalidation, got %d", got)
	}
}

// Config tests

func TestConfig_DefaultsToMemoryBackend(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Backend != BackendTypeMemory {
		t.Fatalf("expected memory backend, got %s", cfg.Backend)
	}
	if cfg.TTL != DefaultTTL {
		t.Fatalf("expected default TTL, got %s", cfg.TTL)
	}
}

func TestConfig_RejectsUnknownBackend(t *testing.T) {
	cfg := &Config{Backend: "redis"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNew_BuildsMemoryCacheFromConfig(t *testing.T) {
	c, err := New(&Config{Backend: BackendTypeMemory}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = c.Close() }()

	if _, ok := c.(*MemoryCache); !ok {
		t.Fatalf("expected *MemoryCache, got %T", c)
	}
}
