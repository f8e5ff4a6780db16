package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// Optimizations counts optimization runs by kind, algorithm, and outcome
	Optimizations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimizations_total", Help: "Optimization runs by kind, algorithm, and status."},
		[]string{"kind", "algorithm", "status"},
	)
	// OptimizationDuration records solver wall time in seconds
	OptimizationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "optimization_duration_seconds", Help: "Optimization duration in seconds.", Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}},
		[]string{"kind", "algorithm"},
	)
	// BatchItems counts per-item batch outcomes
	BatchItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "batch_items_total", Help: "Batch items by outcome."},
		[]string{"status"},
	)

	// WebhookDeliveries counts webhook delivery outcomes by event type and status
	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "webhook_deliveries_total", Help: "Webhook deliveries by event type and status."},
		[]string{"event_type", "status"},
	)
	// WebhookLatency tracks webhook delivery latencies in milliseconds
	WebhookLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "webhook_delivery_latency_ms", Help: "Webhook delivery latency in ms.", Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000}},
		[]string{"event_type", "status"},
	)
)

// RegisterDefault registers collectors to the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(Optimizations)
		Registry.MustRegister(OptimizationDuration)
		Registry.MustRegister(BatchItems)
		Registry.MustRegister(WebhookDeliveries)
		Registry.MustRegister(WebhookLatency)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
