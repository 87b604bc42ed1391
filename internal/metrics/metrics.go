package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Diff outcome label values.
const (
	OutcomeOK        = "ok"
	OutcomeMalformed = "malformed"
)

// Registry holds all Prometheus metrics for the service.
type Registry struct {
	// Diff metrics
	DiffsTotal               *prometheus.CounterVec
	ResourcesComparedTotal   prometheus.Counter
	ConnectionsComparedTotal prometheus.Counter
	DiffDuration             prometheus.Histogram

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.DiffsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "appgraph_diffs_total",
			Help: "Total number of diff computations by outcome",
		},
		[]string{"outcome"},
	)

	r.ResourcesComparedTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "appgraph_resources_compared_total",
			Help: "Total number of resources examined across all diffs",
		},
	)

	r.ConnectionsComparedTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "appgraph_connections_compared_total",
			Help: "Total number of connection pairs examined across all diffs",
		},
	)

	r.DiffDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "appgraph_diff_duration_seconds",
			Help:    "Diff computation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.HTTPRequestsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "appgraph_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "appgraph_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "appgraph_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	return r
}

// RecordDiff records one diff computation. Compared counts are zero for
// failed runs; the outcome label still ticks.
func (r *Registry) RecordDiff(outcome string, resources, connections int, duration time.Duration) {
	r.DiffsTotal.WithLabelValues(outcome).Inc()
	r.DiffDuration.Observe(duration.Seconds())
	r.ResourcesComparedTotal.Add(float64(resources))
	r.ConnectionsComparedTotal.Add(float64(connections))
}

// RecordHTTPRequest records an HTTP request with its duration.
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// Handler returns the Prometheus exposition handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
