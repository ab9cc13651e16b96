// Package metrics provides Prometheus metrics collection for DittoDrive
// components.
//
// All metrics are optional - if not initialized, components use no-op
// implementations that have zero overhead. This allows DittoDrive to run
// with or without metrics collection enabled.
//
// Usage:
//
//	// Initialize global registry (typically in the serve command)
//	metrics.InitRegistry()
//
//	// Create metrics instances for components
//	recorder := metrics.NewCacheRecorder()
//	blobMetrics := metrics.NewBlobMetrics()
//
//	// Or use nil for no-op behavior
//	qc := cache.NewMemoryCache(ttl, nil) // No metrics
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// registry is the global Prometheus registry for all DittoDrive metrics.
	// Protected by registryOnce for write-once, read-many pattern.
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global Prometheus registry.
//
// This must be called before creating any metrics instances. It's safe to
// call multiple times - subsequent calls are ignored.
//
// If not called, GetRegistry() will return nil and all metrics constructors
// will return no-op implementations.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// GetRegistry returns the global Prometheus registry.
//
// Returns nil if InitRegistry() has not been called, indicating metrics
// are disabled.
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled returns true if metrics collection is enabled.
//
// Metrics are enabled if InitRegistry() has been called.
func IsEnabled() bool {
	return GetRegistry() != nil
}
