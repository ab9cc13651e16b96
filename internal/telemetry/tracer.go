package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for drive operations.
// These follow OpenTelemetry semantic conventions where applicable.
// Domain keys use the "drive." prefix, blob store keys "blob.", query
// cache keys "cache." and metadata store keys "store.".
const (
	// Client attributes
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"

	// Drive attributes
	AttrPrincipal  = "drive.principal"   // Acting principal id
	AttrOperation  = "drive.operation"   // Operation name (create_folder, rename, ...)
	AttrNodeID     = "drive.node_id"     // Node identifier
	AttrPath       = "drive.path"        // Drive path
	AttrParentPath = "drive.parent_path" // Containing folder path
	AttrKind       = "drive.kind"        // file or folder
	AttrSize       = "drive.size"        // Payload size in bytes
	AttrRole       = "drive.role"        // Grant role
	AttrGrantee    = "drive.grantee"     // Grant target principal id
	AttrPage       = "drive.page"        // Page number
	AttrPageSize   = "drive.page_size"   // Page size

	// Blob store attributes
	AttrBucket = "blob.bucket"
	AttrKey    = "blob.key"

	// Query cache attributes
	AttrCacheShape = "cache.shape"
	AttrCacheHit   = "cache.hit"

	// Metadata store attributes
	AttrStoreDialect = "store.dialect" // sqlite or postgres
)

// ClientIP returns an attribute for client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// ClientAddr returns an attribute for full client address
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// Principal returns an attribute for the acting principal id
func Principal(id string) attribute.KeyValue {
	return attribute.String(AttrPrincipal, id)
}

// Operation returns an attribute for the operation name
func Operation(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// NodeID returns an attribute for a node id
func NodeID(id string) attribute.KeyValue {
	return attribute.String(AttrNodeID, id)
}

// Path returns an attribute for a drive path
func Path(path string) attribute.KeyValue {
	return attribute.String(AttrPath, path)
}

// ParentPath returns an attribute for a containing folder path
func ParentPath(path string) attribute.KeyValue {
	return attribute.String(AttrParentPath, path)
}

// Kind returns an attribute for the node kind (file or folder)
func Kind(kind string) attribute.KeyValue {
	return attribute.String(AttrKind, kind)
}

// Size returns an attribute for a payload size in bytes
func Size(size int64) attribute.KeyValue {
	return attribute.Int64(AttrSize, size)
}

// Role returns an attribute for a grant role
func Role(role string) attribute.KeyValue {
	return attribute.String(AttrRole, role)
}

// Grantee returns an attribute for the grant target principal id
func Grantee(id string) attribute.KeyValue {
	return attribute.String(AttrGrantee, id)
}

// Page returns an attribute for a page number
func Page(page int) attribute.KeyValue {
	return attribute.Int(AttrPage, page)
}

// PageSize returns an attribute for a page size
func PageSize(size int) attribute.KeyValue {
	return attribute.Int(AttrPageSize, size)
}

// Bucket returns an attribute for the blob bucket name
func Bucket(name string) attribute.KeyValue {
	return attribute.String(AttrBucket, name)
}

// StorageKey returns an attribute for a blob object key
func StorageKey(key string) attribute.KeyValue {
	return attribute.String(AttrKey, key)
}

// CacheShape returns an attribute for a cache operation shape
func CacheShape(shape string) attribute.KeyValue {
	return attribute.String(AttrCacheShape, shape)
}

// CacheHit returns an attribute indicating a cache hit or miss
func CacheHit(hit bool) attribute.KeyValue {
	return attribute.Bool(AttrCacheHit, hit)
}

// StoreDialect returns an attribute for the metadata store dialect
func StoreDialect(dialect string) attribute.KeyValue {
	return attribute.String(AttrStoreDialect, dialect)
}

// StartDriveSpan starts a span for a drive lifecycle operation.
// Span names follow the "drive.<operation>" convention.
//
// The caller must call span.End() when the operation completes.
func StartDriveSpan(ctx context.Context, operation, principalID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	spanAttrs := append([]attribute.KeyValue{
		Operation(operation),
		Principal(principalID),
	}, attrs...)

	return StartSpan(ctx, fmt.Sprintf("drive.%s", operation),
		trace.WithAttributes(spanAttrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartBlobSpan starts a span for a blob store operation.
func StartBlobSpan(ctx context.Context, operation, key string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	spanAttrs := append([]attribute.KeyValue{
		Operation(operation),
		StorageKey(key),
	}, attrs...)

	return StartSpan(ctx, fmt.Sprintf("blob.%s", operation),
		trace.WithAttributes(spanAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// StartCacheSpan starts a span for a query cache operation.
func StartCacheSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("cache.%s", operation),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartStoreSpan starts a span for a metadata store operation.
func StartStoreSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("store.%s", operation),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}
