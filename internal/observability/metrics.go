package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	httpErrorsTotal     *prometheus.CounterVec
	workflowTransitions *prometheus.CounterVec
	feedEventsTotal     *prometheus.CounterVec
	feedClientsActive   prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors for the placement API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "placement_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		workflowTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_workflow_transitions_total",
			Help: "Application workflow transitions by action.",
		}, []string{"action"})

		feedEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_feed_events_total",
			Help: "Live feed events emitted by topic.",
		}, []string{"topic"})

		feedClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "placement_feed_clients_active",
			Help: "Currently connected live feed subscribers.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			workflowTransitions,
			feedEventsTotal,
			feedClientsActive,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// WorkflowTransitions exposes the counter for application workflow actions.
func WorkflowTransitions() *prometheus.CounterVec {
	RegisterMetrics()
	return workflowTransitions
}

// FeedEventsTotal exposes the counter for live feed events.
func FeedEventsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return feedEventsTotal
}

// FeedClientsActive exposes the gauge of connected feed subscribers.
func FeedClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return feedClientsActive
}
