//go:build integration

package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

func createBadgerCache(t *testing.T, ttl time.Duration) *BadgerCache {
	t.Helper()

	c, err := NewBadgerCache(filepath.Join(t.TempDir(), "querycache"), ttl, nil)
	if err != nil {
		t.Fatalf("NewBadgerCache() failed: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c
}

func TestBadgerCache_FetchRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := createBadgerCache(t, DefaultTTL)

	loader := newCountingLoader(25)
	key := listKey("alice", "docs")

	result, err := c.Fetch(ctx, key, loader.load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalItems != 25 {
		t.Fatalf("expected TotalItems=25, got %d", result.TotalItems)
	}

	// Second fetch must come from badger, not the loader
	result, err = c.Fetch(ctx, key, loader.load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalItems != 25 {
		t.Fatalf("expected TotalItems=25 from cache, got %d", result.TotalItems)
	}
	if len(result.Items) != 1 || result.Items[0].Name != "report.pdf" {
		t.Fatalf("cached page lost its items: %+v", result.Items)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected 1 loader call, got %d", loader.calls.Load())
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %d/%d", stats.Hits, stats.Misses)
	}
}

func TestBadgerCache_InvalidateDropsPrincipalPrefix(t *testing.T) {
	ctx := context.Background()
	c := createBadgerCache(t, DefaultTTL)

	aliceLoader := newCountingLoader(1)
	bobLoader := newCountingLoader(2)

	_, _ = c.Fetch(ctx, listKey("alice", "docs"), aliceLoader.load)
	_, _ = c.Fetch(ctx, listKey("alice", "photos"), aliceLoader.load)
	_, _ = c.Fetch(ctx, listKey("bob", "docs"), bobLoader.load)

	if err := c.Invalidate(ctx, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Alice entries reload, bob still hits
	_, _ = c.Fetch(ctx, listKey("alice", "docs"), aliceLoader.load)
	_, _ = c.Fetch(ctx, listKey("bob", "docs"), bobLoader.load)

	if aliceLoader.calls.Load() != 3 {
		t.Fatalf("expected 3 loader calls for alice, got %d", aliceLoader.calls.Load())
	}
	if bobLoader.calls.Load() != 1 {
		t.Fatalf("expected 1 loader call for bob, got %d", bobLoader.calls.Load())
	}
}

func TestBadgerCache_InvalidateDuringLoadIsNotStored(t *testing.T) {
	ctx := context.Background()
	c := createBadgerCache(t, DefaultTTL)

	key := listKey("alice", "docs")

	entered := make(chan struct{})
	release := make(chan struct{})
	preMutation := &models.PageResult[models.Node]{
		Items:      []models.Node{{Name: "old-name.pdf"}},
		TotalItems: 1,
		Page:       1,
		PageSize:   20,
		TotalPages: 1,
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, key, func(context.Context) (*models.PageResult[models.Node], error) {
			close(entered)
			<-release
			return preMutation, nil
		})
		done <- err
	}()

	// Invalidate while the loader is in flight, then let it finish.
	<-entered
	if err := c.Invalidate(ctx, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The in-flight page predates the invalidation and must not have been
	// stored; the next fetch reloads instead of serving it.
	fresh := newCountingLoader(1)
	result, err := c.Fetch(ctx, key, fresh.load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.calls.Load() != 1 {
		t.Fatalf("stale pre-mutation page served after Invalidate: %+v", result.Items)
	}
	if len(result.Items) != 1 || result.Items[0].Name != "report.pdf" {
		t.Fatalf("expected reloaded page, got %+v", result.Items)
	}
}

func TestBadgerCache_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	c := createBadgerCache(t, 1*time.Second)

	loader := newCountingLoader(1)
	key := listKey("alice", "docs")

	_, _ = c.Fetch(ctx, key, loader.load)

	// Badger TTL resolution is one second
	time.Sleep(1500 * time.Millisecond)

	_, _ = c.Fetch(ctx, key, loader.load)
	if loader.calls.Load() != 2 {
		t.Fatalf("expected 2 loader calls after expiry, got %d", loader.calls.Load())
	}
}
