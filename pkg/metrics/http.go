package metrics

import (
	"net/http"
)

// HTTPMiddleware returns a middleware recording request counts and
// durations for the REST API.
//
// When metrics are disabled (InitRegistry not called) the returned
// middleware passes requests through untouched.
func HTTPMiddleware() func(http.Handler) http.Handler {
	if !IsEnabled() || newPrometheusHTTPMiddleware == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return newPrometheusHTTPMiddleware()
}

// newPrometheusHTTPMiddleware is implemented in pkg/metrics/prometheus.
// This indirection avoids import cycles while keeping the API clean.
var newPrometheusHTTPMiddleware func() func(http.Handler) http.Handler

// RegisterHTTPMiddlewareConstructor registers the Prometheus HTTP
// middleware constructor. Called by pkg/metrics/prometheus during package
// initialization.
func RegisterHTTPMiddlewareConstructor(constructor func() func(http.Handler) http.Handler) {
	newPrometheusHTTPMiddleware = constructor
}
