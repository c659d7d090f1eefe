package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "climate"

// Metrics holds the Prometheus collectors for the HTTP surface and the store.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec   // labels: method, route, status
	HTTPRequestDuration  *prometheus.HistogramVec // labels: method, route
	HTTPRequestsInFlight prometheus.Gauge

	StoreQueryDuration *prometheus.HistogramVec // labels: op
	StoreQueryErrors   *prometheus.CounterVec   // labels: op
}

// NewMetrics registers every collector on a fresh registry, so callers
// (including tests) never collide on the global one.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, matched route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPRequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		StoreQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_query_duration_seconds",
			Help:      "Store read latency per repository operation.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"op"}),
		StoreQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_query_errors_total",
			Help:      "Failed repository operations.",
		}, []string{"op"}),
	}

	m.registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.StoreQueryDuration,
		m.StoreQueryErrors,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveQuery records one repository operation. Safe on a nil receiver.
func (m *Metrics) ObserveQuery(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.StoreQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.StoreQueryErrors.WithLabelValues(op).Inc()
	}
}
