package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry and the counters the rest of
// the service increments.
type MetricsService struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	entries      *prometheus.CounterVec
	draws        prometheus.Counter
}

// NewMetricsService creates a registry with process collectors and the
// application metrics registered.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &MetricsService{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giveaway_http_requests_total",
			Help: "Total HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "giveaway_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "giveaway_entries_total",
			Help: "Entry submissions by outcome.",
		}, []string{"outcome"}),
		draws: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "giveaway_winner_draws_total",
			Help: "Completed winner draws.",
		}),
	}

	registry.MustRegister(m.httpRequests, m.httpDuration, m.entries, m.draws)
	return m
}

// ObserveHTTPRequest records one handled request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// CountEntry records an entry submission outcome such as "accepted",
// "duplicate" or "rejected".
func (m *MetricsService) CountEntry(outcome string) {
	m.entries.WithLabelValues(outcome).Inc()
}

// CountDraw records a completed winner draw.
func (m *MetricsService) CountDraw() {
	m.draws.Inc()
}

// Handler exposes the registry in Prometheus text format.
func (m *MetricsService) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
