package http

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	CallsStarted     prometheus.Counter
	NavigationsTotal *prometheus.CounterVec
	RequestsTotal    *prometheus.CounterVec
}

// NewMetrics creates a metric set on a private registry so tests and multiple
// servers never collide on the global default.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{registry: registry}

	m.CallsStarted = promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "pitchline_calls_started_total",
			Help: "Total number of call sessions started",
		},
	)

	m.NavigationsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitchline_navigations_total",
			Help: "Total navigation operations by kind and whether they applied",
		},
		[]string{"op", "applied"},
	)

	m.RequestsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitchline_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	return m
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeNavigation(op string, applied bool) {
	if m == nil {
		return
	}
	m.NavigationsTotal.WithLabelValues(op, strconv.FormatBool(applied)).Inc()
}
