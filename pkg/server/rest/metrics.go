package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/engine/pathfinder"
)

// prometheus metrics
type Metrics struct {
	PathQueryCount     *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	durationSummary    prometheus.Summary
	responseStatusCode *prometheus.CounterVec
	totalRequests      *prometheus.CounterVec
}

// NewMetrics registers the HTTP metrics plus read-only collectors over the
// engine's statistics counters.
func NewMetrics(reg prometheus.Registerer, stats *pathfinder.Statistics) *Metrics {
	m := &Metrics{
		PathQueryCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "citysim",
			Name:      "pathfinding_query_count",
			Help:      "The total number of shortest path queries",
		}, []string{"use_dynamic_cost"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "citysim",
			Name:      "request_duration_seconds",
			Help:      "The duration of request",
			Buckets:   []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.3},
		}, []string{"method", "path"}),
		durationSummary: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace:  "citysim",
			Name:       "pathfinding_request_duration_summary_seconds",
			Help:       "The duration of request",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
		responseStatusCode: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "citysim",
				Name:      "response_status_code",
				Help:      "The status code of http response",
			}, []string{"status", "method", "path"},
		),
		totalRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "citysim",
				Name:      "total_requests",
				Help:      "The total number of requests",
			}, []string{"path", "method", "status"},
		),
	}
	reg.MustRegister(m.PathQueryCount, m.httpDuration, m.durationSummary, m.responseStatusCode, m.totalRequests)

	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "citysim",
		Name:      "pathfinding_total_searches",
		Help:      "The total number of searches run by the engine",
	}, func() float64 { return float64(stats.Snapshot().TotalSearches) }))
	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "citysim",
		Name:      "pathfinding_successful_searches",
		Help:      "The total number of searches that found a path",
	}, func() float64 { return float64(stats.Snapshot().SuccessfulSearches) }))
	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "citysim",
		Name:      "pathfinding_search_nanoseconds_total",
		Help:      "Wall time consumed by searches",
	}, func() float64 { return float64(stats.Snapshot().TotalCycles) }))
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "citysim",
		Name:      "pathfinding_max_iterations_observed",
		Help:      "Maximum expand-loop iterations seen in a single search",
	}, func() float64 { return float64(stats.Snapshot().MaxIterations) }))
	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "citysim",
		Name:      "pathfinding_cache_hits",
		Help:      "Path cache hits",
	}, func() float64 { return float64(stats.Snapshot().CacheHits) }))
	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "citysim",
		Name:      "pathfinding_cache_misses",
		Help:      "Path cache misses",
	}, func() float64 { return float64(stats.Snapshot().CacheMisses) }))

	return m
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func NewResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func PromeHttpMiddleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			rw := NewResponseWriter(w)
			timer := prometheus.NewTimer(m.httpDuration.With(prometheus.Labels{"method": r.Method, "path": path}))
			now := time.Now()

			next.ServeHTTP(rw, r)

			statusCode := rw.statusCode

			m.responseStatusCode.With(prometheus.Labels{"status": strconv.Itoa(statusCode), "method": r.Method, "path": path}).Inc()
			m.totalRequests.With(prometheus.Labels{"path": path, "method": r.Method, "status": strconv.Itoa(statusCode)}).Inc()
			timer.ObserveDuration()
			m.durationSummary.Observe(time.Since(now).Seconds())

		})
	}
}
