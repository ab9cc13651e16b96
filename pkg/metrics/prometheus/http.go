package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/dittodrive/pkg/metrics"
)

func init() {
	metrics.RegisterHTTPMiddlewareConstructor(newHTTPMiddleware)
}

// newHTTPMiddleware creates a chi middleware recording request counts and
// durations against the global registry.
//
// Requests are labelled by method, chi route pattern and status code, so
// cardinality stays bounded even with opaque ids in paths.
func newHTTPMiddleware() func(http.Handler) http.Handler {
	reg := metrics.GetRegistry()

	requestsTotal := promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dittodrive_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	requestDuration := promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dittodrive_http_request_duration_milliseconds",
			Help: "Duration of HTTP requests in milliseconds",
			Buckets: []float64{
				1,     // 1ms
				10,    // 10ms
				100,   // 100ms
				1000,  // 1s
				10000, // 10s
			},
		},
		[]string{"method", "route"},
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			// The route pattern is only known after routing has happened.
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}

			requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
			requestDuration.WithLabelValues(r.Method, route).
				Observe(float64(time.Since(start).Milliseconds()))
		})
	}
}
