package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application metrics.
type Metrics struct {
	// Total HTTP requests (method, path, status_code)
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency (method, path)
	HTTPRequestDuration *prometheus.HistogramVec

	// Reservation attempts (status: confirmed, cancelled, sold_out, lock_failed, error)
	ReservationsTotal *prometheus.CounterVec

	// Distributed lock operation latency (operation: acquire/release, status: success/failed)
	DistributedLockDuration *prometheus.HistogramVec

	// Statistics records that could not be applied
	StatsRecordFailures prometheus.Counter

	// View-telemetry jobs dropped because the queue was full
	StatsQueueDropped prometheus.Counter
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a Metrics instance registered on the given registry.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Total number of reservation attempts by outcome",
			},
			[]string{"status"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		StatsRecordFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "stats_record_failures_total",
				Help: "Number of statistics updates that failed to apply",
			},
		),
		StatsQueueDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "stats_queue_dropped_total",
				Help: "Number of view-telemetry jobs dropped due to a full queue",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.DistributedLockDuration,
		m.StatsRecordFailures,
		m.StatsQueueDropped,
	)

	return m
}

var defaultMetrics *Metrics

// Init initializes the default Metrics instance.
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get returns the default Metrics instance.
func Get() *Metrics {
	return defaultMetrics
}
