package metrics

import (
	"github.com/marmos91/dittodrive/pkg/blob"
)

// NewBlobMetrics creates a new Prometheus-backed blob store metrics
// collector.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
// When nil is returned, callers should pass nil to blob store constructors,
// which results in zero overhead.
func NewBlobMetrics() blob.Metrics {
	if !IsEnabled() {
		return nil
	}
	return newPrometheusBlobMetrics()
}

// newPrometheusBlobMetrics is implemented in pkg/metrics/prometheus.
// This indirection avoids import cycles while keeping the API clean.
var newPrometheusBlobMetrics func() blob.Metrics

// RegisterBlobMetricsConstructor registers the Prometheus blob metrics
// constructor. Called by pkg/metrics/prometheus during package
// initialization.
func RegisterBlobMetricsConstructor(constructor func() blob.Metrics) {
	newPrometheusBlobMetrics = constructor
}
