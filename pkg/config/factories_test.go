package config

import (
	"context"
	"testing"
	"time"
)

func TestCreateBlobStore_Memory(t *testing.T) {
	store, err := CreateBlobStore(context.Background(), BlobConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("CreateBlobStore failed: %v", err)
	}
	if store == nil {
		t.Fatal("Expected a blob store")
	}
}

func TestCreateBlobStore_UnknownType(t *testing.T) {
	_, err := CreateBlobStore(context.Background(), BlobConfig{Type: "ftp"})
	if err == nil {
		t.Fatal("Expected error for unknown blob store type")
	}
}

func TestCreateQueryCache_Memory(t *testing.T) {
	cfg := CacheConfig{Backend: "memory", TTL: time.Minute}

	c, err := CreateQueryCache(cfg)
	if err != nil {
		t.Fatalf("CreateQueryCache failed: %v", err)
	}
	defer func() { _ = c.Close() }()

	if c == nil {
		t.Fatal("Expected a query cache")
	}
}

func TestCreateQueryCache_UnknownBackend(t *testing.T) {
	_, err := CreateQueryCache(CacheConfig{Backend: "redis"})
	if err == nil {
		t.Fatal("Expected error for unknown cache backend")
	}
}
