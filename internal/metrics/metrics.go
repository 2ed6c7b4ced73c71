// Package metrics provides Prometheus metrics collection for the navigation service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace prefixes every metric name of the service.
const namespace = "nav"

// unmatchedRoute labels requests that matched no route, keeping the path
// label bounded.
const unmatchedRoute = "unmatched"

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// UpstreamQueriesTotal tracks content source queries by source, scope and status.
	UpstreamQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_upstream_queries_total",
			Help:      "Total number of content source queries",
		},
		[]string{"source", "scope", "status"},
	)

	// UpstreamQueryDuration tracks content source query latency.
	UpstreamQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "content_upstream_query_duration_seconds",
			Help:      "Content source query duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	// ContentReadsTotal tracks scoped reads by scope and cache result.
	ContentReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_reads_total",
			Help:      "Total number of content reads",
		},
		[]string{"scope", "result"},
	)

	// RefreshTotal tracks forced refreshes by outcome.
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_refresh_total",
			Help:      "Total number of forced cache refreshes",
		},
		[]string{"status"},
	)

	// RefreshDuration tracks forced refresh duration.
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "content_refresh_duration_seconds",
			Help:      "Forced cache refresh duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks the number of cached collections.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_size",
			Help:      "Current number of cached collections",
		},
	)

	// CacheGeneration tracks how many times the cache was cleared or replaced.
	CacheGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_generation",
			Help:      "Current cache generation",
		},
	)

	// CircuitBreakerState tracks circuit breaker state (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state: 0 closed, 1 open, 2 half-open",
		},
		[]string{"name"},
	)

	// JournalEventsTotal tracks refresh journal writes by result.
	JournalEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_journal_events_total",
			Help:      "Total number of refresh journal events by result",
		},
		[]string{"result"},
	)

	// RateLimitedTotal tracks requests rejected by a named rate limiter.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Total number of requests rejected by rate limiting",
		},
		[]string{"limiter"},
	)
)

// PrometheusMiddleware records the duration and count of every request,
// labelled by route template rather than raw path. Scrapes of metricsPath
// are not recorded.
func PrometheusMiddleware(metricsPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == metricsPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		labels := prometheus.Labels{
			"method":      c.Request.Method,
			"path":        route,
			"status_code": strconv.Itoa(c.Writer.Status()),
		}
		HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.With(labels).Inc()
	}
}

// RecordUpstreamQuery records metrics for one content source query.
func RecordUpstreamQuery(source, scope string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	UpstreamQueryDuration.WithLabelValues(source).Observe(duration.Seconds())
	UpstreamQueriesTotal.WithLabelValues(source, scope, status).Inc()
}

// RecordContentRead records a scoped read; result is "hit", "miss", "derived" or "error".
func RecordContentRead(scope, result string) {
	ContentReadsTotal.WithLabelValues(scope, result).Inc()
}

// RecordRefresh records metrics for a forced refresh.
func RecordRefresh(duration time.Duration, status string) {
	RefreshDuration.Observe(duration.Seconds())
	RefreshTotal.WithLabelValues(status).Inc()
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and generation metrics.
func UpdateCacheMetrics(size int, generation uint64) {
	CacheSize.Set(float64(size))
	CacheGeneration.Set(float64(generation))
}

// SetCircuitBreakerState records the state of a named circuit breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordJournalEvent records a refresh journal outcome.
func RecordJournalEvent(result string) {
	JournalEventsTotal.WithLabelValues(result).Inc()
}

// RecordRateLimited records a request rejected by the named limiter.
func RecordRateLimited(limiter string) {
	RateLimitedTotal.WithLabelValues(limiter).Inc()
}
