package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all gateway-level metrics (not domain-specific)
type Metrics struct {
	// GraphQL metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Backend metrics
	BackendCalls    *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all gateway metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pvgql",
				Subsystem: "graphql",
				Name:      "requests_total",
				Help:      "Total number of GraphQL requests",
			},
			[]string{"operation", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "pvgql",
				Subsystem: "graphql",
				Name:      "request_duration_seconds",
				Help:      "GraphQL request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		BackendCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pvgql",
				Subsystem: "backend",
				Name:      "calls_total",
				Help:      "Total number of backend REST calls",
			},
			[]string{"path", "status"},
		),

		BackendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "pvgql",
				Subsystem: "backend",
				Name:      "call_duration_seconds",
				Help:      "Backend REST call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),
	}
}

// Register registers all metrics with the provided registry
func (c *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		c.RequestsTotal,
		c.RequestDuration,
		c.BackendCalls,
		c.BackendDuration,
	}
	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// RecordRequest increments the GraphQL request counter
func (c *Metrics) RecordRequest(operation, status string) {
	c.RequestsTotal.WithLabelValues(operation, status).Inc()
}

// RecordRequestDuration records GraphQL request processing time
func (c *Metrics) RecordRequestDuration(operation string, duration time.Duration) {
	c.RequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordBackendCall increments the backend call counter
func (c *Metrics) RecordBackendCall(path, status string) {
	c.BackendCalls.WithLabelValues(path, status).Inc()
}

// RecordBackendDuration records backend call time
func (c *Metrics) RecordBackendDuration(path string, duration time.Duration) {
	c.BackendDuration.WithLabelValues(path).Observe(duration.Seconds())
}
