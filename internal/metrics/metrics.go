// Package metrics provides Prometheus metrics for the jobmatch service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the Prometheus registry and the collectors for the service.
// A nil *Registry is valid and records nothing, so instrumented components do
// not need to guard every call site.
type Registry struct {
	registry *prometheus.Registry

	providerCalls    *prometheus.CounterVec
	providerDuration prometheus.Histogram
	matchesComputed  prometheus.Counter
	httpDuration     *prometheus.HistogramVec
}

// New creates a Registry with all collectors registered.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,
		providerCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobmatch",
			Subsystem: "embeddings",
			Name:      "provider_calls_total",
			Help:      "Embedding provider calls by outcome (ok, transient_error, permanent_error).",
		}, []string{"outcome"}),
		providerDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "jobmatch",
			Subsystem: "embeddings",
			Name:      "provider_call_seconds",
			Help:      "Duration of embedding provider calls, including retries.",
			Buckets:   prometheus.DefBuckets,
		}),
		matchesComputed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "jobmatch",
			Subsystem: "matching",
			Name:      "scores_computed_total",
			Help:      "Compatibility scores computed.",
		}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jobmatch",
			Subsystem: "http",
			Name:      "request_seconds",
			Help:      "HTTP request duration by route and status class.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveProviderCall records the outcome and total duration of one gateway
// round trip to the embedding provider.
func (r *Registry) ObserveProviderCall(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.providerCalls.WithLabelValues(outcome).Inc()
	r.providerDuration.Observe(elapsed.Seconds())
}

// AddScoresComputed records n compatibility score computations.
func (r *Registry) AddScoresComputed(n int) {
	if r == nil {
		return
	}
	r.matchesComputed.Add(float64(n))
}

// ObserveHTTP records one served HTTP request.
func (r *Registry) ObserveHTTP(route, status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpDuration.WithLabelValues(route, status).Observe(elapsed.Seconds())
}

// Handler returns the scrape endpoint handler for this registry.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
