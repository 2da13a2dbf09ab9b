// Package metrics provides Prometheus instrumentation for the endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the endpoint
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	LoginFailures   prometheus.Counter
	WSConnections   prometheus.Gauge
	WebSocketFrames *prometheus.CounterVec
}

// New creates a new Metrics instance backed by its own registry
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "codegate"
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),
		LoginFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_failures_total",
				Help:      "Total number of failed login attempts",
			},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "websocket_connections",
				Help:      "Number of open WebSocket connections",
			},
		),
		WebSocketFrames: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "websocket_frames_total",
				Help:      "Total number of WebSocket frames by event",
			},
			[]string{"event", "direction"},
		),
	}
}

// Handler returns the HTTP handler exposing the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
