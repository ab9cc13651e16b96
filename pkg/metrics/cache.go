package metrics

import (
	"github.com/marmos91/dittodrive/pkg/drive/cache"
)

// NewCacheRecorder creates a new Prometheus-backed query cache recorder.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
// When nil is returned, callers should pass nil to cache constructors,
// which results in zero overhead.
func NewCacheRecorder() cache.Recorder {
	if !IsEnabled() {
		return nil
	}
	return newPrometheusCacheRecorder()
}

// newPrometheusCacheRecorder is implemented in pkg/metrics/prometheus.
// This indirection avoids import cycles while keeping the API clean.
var newPrometheusCacheRecorder func() cache.Recorder

// RegisterCacheRecorderConstructor registers the Prometheus cache recorder
// constructor. Called by pkg/metrics/prometheus during package
// initialization.
func RegisterCacheRecorderConstructor(constructor func() cache.Recorder) {
	newPrometheusCacheRecorder = constructor
}
