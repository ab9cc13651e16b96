// Package memory implements an in-memory blob store.
//
// This backend exists for tests and local development: payloads live in a
// map and signed URLs are synthetic. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
)

// object holds one stored payload.
type object struct {
	data        []byte
	contentType string
	storedAt    time.Time
}

// MemoryStore implements blob.Store with an in-process map.
//
// Thread safety: safe for concurrent use. Writes to the same key are
// last-write-wins, matching the S3 backend.
type MemoryStore struct {
	objects map[string]*object
	mu      sync.RWMutex
}

// New creates an empty in-memory blob store.
func New() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]*object),
	}
}

// PutObject stores body under key, overwriting any existing object.
func (s *MemoryStore) PutObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read upload body: %w", err)
	}

	s.mu.Lock()
	s.objects[key] = &object{
		data:        data,
		contentType: contentType,
		storedAt:    time.Now(),
	}
	s.mu.Unlock()
	return nil
}

// MoveObject relocates the object at oldKey to newKey. A missing source is
// NotFound.
func (s *MemoryStore) MoveObject(ctx context.Context, oldKey, newKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[oldKey]
	if !ok {
		return fault.NotFound("object", oldKey)
	}
	s.objects[newKey] = obj
	delete(s.objects, oldKey)
	return nil
}

// DeleteObject removes the object at key. Deleting a missing object is not
// an error.
func (s *MemoryStore) DeleteObject(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// PresignGetObject returns a synthetic expiring URL for the object at key.
// The URL is not served by anything; tests assert on its shape and expiry.
func (s *MemoryStore) PresignGetObject(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", fault.NotFound("object", key)
	}

	expiresAt := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("memory://blob/%s?expires=%d", key, expiresAt), nil
}

// GetObject returns the stored payload and content type for key. Not part
// of the blob.Store contract; tests use it to verify uploads.
func (s *MemoryStore) GetObject(key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, "", fault.NotFound("object", key)
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, obj.contentType, nil
}

// Healthcheck reports whether the store is usable. The in-memory store is
// always healthy.
func (s *MemoryStore) Healthcheck(ctx context.Context) error {
	return nil
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Keys returns all stored keys. Test helper.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}
