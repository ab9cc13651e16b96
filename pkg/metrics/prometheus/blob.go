package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/dittodrive/pkg/blob"
	"github.com/marmos91/dittodrive/pkg/metrics"
)

func init() {
	metrics.RegisterBlobMetricsConstructor(newBlobMetrics)
}

// blobMetrics is the Prometheus implementation of blob.Metrics.
type blobMetrics struct {
	operationDuration *prometheus.HistogramVec
	operationErrors   *prometheus.CounterVec
	bytesTransferred  *prometheus.CounterVec
}

// newBlobMetrics creates Prometheus-backed blob store metrics registered
// against the global registry.
func newBlobMetrics() blob.Metrics {
	reg := metrics.GetRegistry()

	return &blobMetrics{
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "dittodrive_blob_operation_duration_milliseconds",
				Help: "Duration of blob store operations in milliseconds",
				Buckets: []float64{
					1,     // 1ms
					10,    // 10ms
					100,   // 100ms
					1000,  // 1s
					10000, // 10s
				},
			},
			[]string{"operation"},
		),
		operationErrors: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dittodrive_blob_operation_errors_total",
				Help: "Total number of failed blob store operations",
			},
			[]string{"operation"},
		),
		bytesTransferred: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dittodrive_blob_bytes_transferred_total",
				Help: "Total bytes transferred to and from the blob store",
			},
			[]string{"direction"},
		),
	}
}

// ObserveOperation records a completed blob store operation.
func (m *blobMetrics) ObserveOperation(operation string, duration time.Duration, err error) {
	m.operationDuration.WithLabelValues(operation).Observe(float64(duration.Milliseconds()))
	if err != nil {
		m.operationErrors.WithLabelValues(operation).Inc()
	}
}

// RecordBytes records bytes moved in the given direction ("read"/"write").
func (m *blobMetrics) RecordBytes(direction string, n int64) {
	m.bytesTransferred.WithLabelValues(direction).Add(float64(n))
}
