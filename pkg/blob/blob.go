// Package blob defines the narrow object-store contract the drive consumes.
//
// All backends (S3/MinIO, in-memory) implement the Store interface. Callers
// depend only on this package, never on a specific backend package. The
// drive stores opaque payloads under keys built by the resolver; replication,
// lifecycle rules and content hashing are the backend's business.
package blob

import (
	"context"
	"io"
	"time"
)

// Store is the object-store interface consumed by the lifecycle and sharing
// services.
//
// All methods classify backend errors into the fault taxonomy: a missing
// object is NotFound, an exhausted retry budget is Unavailable, an exceeded
// deadline is Timeout.
type Store interface {
	// PutObject uploads body under key, overwriting any existing object.
	PutObject(ctx context.Context, key string, body io.Reader, contentType string) error

	// MoveObject relocates the object at oldKey to newKey.
	MoveObject(ctx context.Context, oldKey, newKey string) error

	// DeleteObject removes the object at key. Deleting a missing object is
	// not an error.
	DeleteObject(ctx context.Context, key string) error

	// PresignGetObject returns a time-limited URL granting read access to
	// the object at key without credentials.
	PresignGetObject(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Metrics receives blob operation events for metrics export.
// Implementations live outside this package; a nil Metrics disables
// recording.
type Metrics interface {
	ObserveOperation(operation string, duration time.Duration, err error)
	RecordBytes(direction string, n int64)
}
