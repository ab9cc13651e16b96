package logger

import "log/slog"

// Shared field keys. Every log statement uses these names so aggregated
// logs stay queryable across packages.
const (
	// Distributed Tracing.
	KeyTraceID = "trace_id" // OpenTelemetry trace identifier
	KeySpanID  = "span_id"  // OpenTelemetry span identifier

	// Request & Client.
	KeyRequestID = "request_id" // HTTP request ID assigned by the API middleware
	KeyClientIP  = "client_ip"  // Client IP address
	KeyMethod    = "method"     // HTTP method
	KeyRoute     = "route"      // Matched route pattern
	KeyStatus    = "status"     // HTTP status code

	// Identity.
	KeyPrincipal = "principal" // Acting principal id
	KeyEmail     = "email"     // Principal email
	KeyGrantee   = "grantee"   // Grant target principal id
	KeyRole      = "role"      // Grant role: viewer, editor, owner

	// Drive Nodes.
	KeyNodeID     = "node_id"     // Node identifier
	KeyName       = "name"        // Node leaf name
	KeyPath       = "path"        // Full node path
	KeyParentPath = "parent_path" // Parent folder path
	KeyOldPath    = "old_path"    // Path before a rename or move
	KeyNewPath    = "new_path"    // Path after a rename or move
	KeyKind       = "kind"        // Node kind: file, folder
	KeySize       = "size"        // File size in bytes

	// Operation Metadata.
	KeyOperation  = "operation"   // Operation name: create_folder, rename, ...
	KeyDurationMs = "duration_ms" // Elapsed time in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorCode  = "error_code"  // Fault code

	// Object Storage.
	KeyBucket      = "bucket"       // Bucket name
	KeyKey         = "key"          // Object key
	KeyOldKey      = "old_key"      // Source key for object moves
	KeyNewKey      = "new_key"      // Destination key for object moves
	KeyRegion      = "region"       // Cloud region
	KeyStoreType   = "store_type"   // Blob backend: s3, memory
	KeyContentType = "content_type" // Uploaded content type
	KeyAttempt     = "attempt"      // Retry attempt number
	KeyMaxRetries  = "max_retries"  // Maximum retry attempts

	// Query Cache.
	KeyCacheBackend = "cache_backend" // Cache backend: memory, badger
	KeyCacheHit     = "cache_hit"     // Cache hit indicator
	KeyCacheSize    = "cache_size"    // Current number of cached pages
	KeyShape        = "shape"         // Cached operation shape: list, search, trash

	// Pagination.
	KeyPage       = "page"        // 1-indexed page number
	KeyPageSize   = "page_size"   // Page size
	KeyTotalItems = "total_items" // Total matching rows
)

// Typed attribute constructors. Handlers get a consistent key set and call
// sites avoid misspelling the keys above.

// TraceID returns the trace identifier attribute.
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns the span identifier attribute.
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// RequestID returns a slog.Attr for the HTTP request ID
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// ClientIP returns the client address attribute.
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// Principal returns a slog.Attr for the acting principal id
func Principal(id string) slog.Attr {
	return slog.String(KeyPrincipal, id)
}

// Grantee returns a slog.Attr for a grant target principal id
func Grantee(id string) slog.Attr {
	return slog.String(KeyGrantee, id)
}

// Role returns a slog.Attr for a grant role
func Role(role string) slog.Attr {
	return slog.String(KeyRole, role)
}

// NodeID returns a slog.Attr for a node identifier
func NodeID(id string) slog.Attr {
	return slog.String(KeyNodeID, id)
}

// Name returns a slog.Attr for a node leaf name
func Name(name string) slog.Attr {
	return slog.String(KeyName, name)
}

// Path returns a slog.Attr for a full node path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// ParentPath returns a slog.Attr for a parent folder path
func ParentPath(p string) slog.Attr {
	return slog.String(KeyParentPath, p)
}

// OldPath returns a slog.Attr for the source path in rename/move operations
func OldPath(p string) slog.Attr {
	return slog.String(KeyOldPath, p)
}

// NewPath returns a slog.Attr for the destination path in rename/move operations
func NewPath(p string) slog.Attr {
	return slog.String(KeyNewPath, p)
}

// Kind returns a slog.Attr for a node kind
func Kind(kind string) slog.Attr {
	return slog.String(KeyKind, kind)
}

// Size returns a slog.Attr for a file size
func Size(s int64) slog.Attr {
	return slog.Int64(KeySize, s)
}

// Operation returns a slog.Attr for an operation name
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// DurationMs returns the elapsed-milliseconds attribute.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a fault code
func ErrorCode(code string) slog.Attr {
	return slog.String(KeyErrorCode, code)
}

// Bucket returns a slog.Attr for a bucket name
func Bucket(name string) slog.Attr {
	return slog.String(KeyBucket, name)
}

// Key returns a slog.Attr for an object key
func Key(k string) slog.Attr {
	return slog.String(KeyKey, k)
}

// OldKey returns a slog.Attr for the source key of an object move
func OldKey(k string) slog.Attr {
	return slog.String(KeyOldKey, k)
}

// NewKey returns a slog.Attr for the destination key of an object move
func NewKey(k string) slog.Attr {
	return slog.String(KeyNewKey, k)
}

// Region returns a slog.Attr for a cloud region
func Region(r string) slog.Attr {
	return slog.String(KeyRegion, r)
}

// StoreType returns a slog.Attr for a blob backend type
func StoreType(t string) slog.Attr {
	return slog.String(KeyStoreType, t)
}

// ContentType returns a slog.Attr for an uploaded content type
func ContentType(ct string) slog.Attr {
	return slog.String(KeyContentType, ct)
}

// Attempt returns a slog.Attr for a retry attempt number
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// MaxRetries returns the retry-budget attribute.
func MaxRetries(n int) slog.Attr {
	return slog.Int(KeyMaxRetries, n)
}

// CacheBackend returns a slog.Attr for a cache backend name
func CacheBackend(name string) slog.Attr {
	return slog.String(KeyCacheBackend, name)
}

// CacheHit returns a slog.Attr for a cache hit indicator
func CacheHit(hit bool) slog.Attr {
	return slog.Bool(KeyCacheHit, hit)
}

// CacheSize returns a slog.Attr for the current number of cached pages
func CacheSize(size int64) slog.Attr {
	return slog.Int64(KeyCacheSize, size)
}

// Shape returns a slog.Attr for a cached operation shape
func Shape(shape string) slog.Attr {
	return slog.String(KeyShape, shape)
}

// Page returns a slog.Attr for a 1-indexed page number
func Page(n int) slog.Attr {
	return slog.Int(KeyPage, n)
}

// PageSize returns a slog.Attr for a page size
func PageSize(n int) slog.Attr {
	return slog.Int(KeyPageSize, n)
}

// TotalItems returns a slog.Attr for the total matching rows
func TotalItems(n int64) slog.Attr {
	return slog.Int64(KeyTotalItems, n)
}
