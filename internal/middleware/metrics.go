package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodsense",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "moodsense",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "moodsense",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests by method",
		},
		[]string{"method"},
	)

	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodsense",
			Subsystem: "analysis",
			Name:      "total",
			Help:      "Completed analyses by modality and risk level",
		},
		[]string{"modality", "risk_level"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight, analysesTotal)
}

// MetricsMiddleware instruments requests for Prometheus. Register it on
// the chi router itself (mux.Use), not around it: the route pattern only
// exists inside the router's context.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.Method
		// The route pattern is unknown until routing has run, so inflight
		// is tracked per method only.
		httpInflight.WithLabelValues(method).Inc()
		defer httpInflight.WithLabelValues(method).Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(wrapped, r)

		// Read the pattern after the handler returns; by then chi has
		// matched the route and parameterized paths collapse into one
		// label value.
		path := routePatternOrPath(r)
		statusLabel := strconv.Itoa(wrapped.statusCode)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(path, method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, method, statusLabel).Observe(dur)
	})
}

// routePatternOrPath returns the chi route pattern if available, otherwise
// falls back to URL path. This avoids high-cardinality label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// RecordAnalysis is called after each completed analysis
func RecordAnalysis(modality, riskLevel string) {
	analysesTotal.WithLabelValues(modality, riskLevel).Inc()
}
