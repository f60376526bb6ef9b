// Package metrics provides Prometheus collectors for the rxcompare API.
// Besides the usual HTTP request counters it tracks the behavior of the
// pricing pipeline: upstream calls per source and outcome, cache hits and
// misses, and how deep the price fallback chain had to go before settling.
//
// All collectors are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)

	UpstreamRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_request_total",
			Help: "Upstream API calls by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream API call latency by source",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	CacheRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_request_total",
			Help: "TTL cache lookups by outcome (hit, miss, expired)",
		},
		[]string{"outcome"},
	)

	PriceFallbackDepth = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "price_fallback_depth",
			Help:    "Fallback chain attempts made before a price resolved",
			Buckets: []float64{1, 2, 3, 4, 5, 6},
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(UpstreamRequestTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(CacheRequestTotal)
	prometheus.MustRegister(PriceFallbackDepth)
}
