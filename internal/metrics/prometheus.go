// Package metrics holds the Prometheus collectors shared by the HTTP layer and services.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aem_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aem_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)
	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aem_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
	llmCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aem_llm_calls_total",
			Help: "Generative model calls by provider, prompt and outcome",
		},
		[]string{"provider", "prompt", "outcome"},
	)
	probes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aem_inspector_probes_total",
			Help: "Page inspector probes by outcome (hit, miss, error)",
		},
		[]string{"outcome"},
	)
	ingested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aem_ingest_documents_total",
			Help: "Ingested documents by status (indexed, skipped, failed)",
		},
		[]string{"status"},
	)
)

// ObserveHTTP records one finished request.
func ObserveHTTP(method, route, status string, seconds float64) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// InFlight returns the in-flight gauge.
func InFlight() prometheus.Gauge { return httpInFlight }

// ObserveLLM records a model call.
func ObserveLLM(provider, prompt string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	llmCalls.WithLabelValues(provider, prompt, outcome).Inc()
}

// Probe outcomes
const (
	ProbeHit   = "hit"
	ProbeMiss  = "miss"
	ProbeError = "error"
)

// ObserveProbe records a page inspector probe.
func ObserveProbe(outcome string) {
	probes.WithLabelValues(outcome).Inc()
}

// ObserveIngest records an ingestion outcome.
func ObserveIngest(status string) {
	ingested.WithLabelValues(status).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
