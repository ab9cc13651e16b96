// Package prometheus contains the Prometheus-backed implementations of the
// DittoDrive metrics interfaces.
//
// Import this package for its side effects to register the constructors
// with pkg/metrics:
//
//	import _ "github.com/marmos91/dittodrive/pkg/metrics/prometheus"
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/dittodrive/pkg/drive/cache"
	"github.com/marmos91/dittodrive/pkg/metrics"
)

func init() {
	metrics.RegisterCacheRecorderConstructor(newCacheRecorder)
}

// cacheRecorder is the Prometheus implementation of cache.Recorder.
type cacheRecorder struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	invalidations prometheus.Counter
}

// newCacheRecorder creates a Prometheus-backed query cache recorder
// registered against the global registry.
func newCacheRecorder() cache.Recorder {
	reg := metrics.GetRegistry()

	return &cacheRecorder{
		hits: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dittodrive_query_cache_hits_total",
				Help: "Total number of query cache hits by operation shape",
			},
			[]string{"shape"},
		),
		misses: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dittodrive_query_cache_misses_total",
				Help: "Total number of query cache misses by operation shape",
			},
			[]string{"shape"},
		),
		invalidations: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "dittodrive_query_cache_invalidations_total",
				Help: "Total number of per-principal cache invalidations",
			},
		),
	}
}

// RecordHit records a cache hit for the given operation shape.
func (r *cacheRecorder) RecordHit(shape string) {
	r.hits.WithLabelValues(shape).Inc()
}

// RecordMiss records a cache miss for the given operation shape.
func (r *cacheRecorder) RecordMiss(shape string) {
	r.misses.WithLabelValues(shape).Inc()
}

// RecordInvalidation records a per-principal invalidation.
func (r *cacheRecorder) RecordInvalidation() {
	r.invalidations.Inc()
}
