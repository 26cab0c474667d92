// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the storefront.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method, status class, and route.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mimart_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status", "route"},
	)

	// RequestDuration records HTTP request duration in seconds by method and route.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mimart_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "route"},
	)

	// ProviderRequestsTotal counts generation calls sent to the AI backend,
	// after credential rotation has settled on an outcome.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mimart_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"model", "status"},
	)

	// ProviderLatency records end-to-end generation latency in seconds,
	// including retries across credentials.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mimart_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: LLMBuckets,
		},
		[]string{"model"},
	)

	// SearchRequestsTotal counts web search calls by outcome.
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mimart_search_requests_total",
			Help: "Web search requests",
		},
		[]string{"status"},
	)

	// PageFetchesTotal counts retrieval page fetches by outcome.
	PageFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mimart_page_fetches_total",
			Help: "Retrieval page fetches",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		ProviderRequestsTotal,
		ProviderLatency,
		SearchRequestsTotal,
		PageFetchesTotal,
	)
}

// ObserveProviderRequest records one settled generation call.
func ObserveProviderRequest(model string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ProviderRequestsTotal.WithLabelValues(model, status).Inc()
	ProviderLatency.WithLabelValues(model).Observe(duration.Seconds())
}

// ObserveSearch records one web search call.
func ObserveSearch(ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	SearchRequestsTotal.WithLabelValues(status).Inc()
}

// ObservePageFetch records one retrieval page fetch.
func ObservePageFetch(ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	PageFetchesTotal.WithLabelValues(status).Inc()
}
