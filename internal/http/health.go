package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nav-service/internal/circuitbreaker"
	"github.com/guttosm/nav-service/internal/service/cache"
)

// readinessTimeout bounds each dependency check of the readiness probe.
const readinessTimeout = 2 * time.Second

// HealthChecker defines the interface for health check operations.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) error

// Check calls f.
func (f HealthCheckerFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// CheckOption configures a registered check.
type CheckOption func(*dependency)

// Optional reports the check without letting it fail readiness. The
// refresh journal uses it: reads keep working while MongoDB is down.
func Optional() CheckOption {
	return func(d *dependency) { d.optional = true }
}

type dependency struct {
	name     string
	checker  HealthChecker
	breaker  *circuitbreaker.CircuitBreaker
	optional bool
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	deps         []*dependency
	cacheMetrics func() cache.Metrics
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// RegisterChecker registers a dependency checked by the readiness probe.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker, opts ...CheckOption) {
	h.add(&dependency{name: name, checker: checker}, opts)
}

// RegisterCircuitBreaker reports a breaker as name_circuit; an open breaker
// fails readiness unless the check is optional.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker, opts ...CheckOption) {
	h.add(&dependency{name: name + "_circuit", breaker: cb}, opts)
}

func (h *HealthHandler) add(d *dependency, opts []CheckOption) {
	for _, opt := range opts {
		opt(d)
	}
	h.deps = append(h.deps, d)
}

// RegisterCache reports the content cache state on the readiness probe.
func (h *HealthHandler) RegisterCache(metrics func() cache.Metrics) {
	h.cacheMetrics = metrics
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK if the service is running.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Returns OK if all required dependencies are healthy and no required circuit breaker is open. Includes the content cache generation and entry count.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Service is ready"
// @Failure     503 {object} map[string]interface{} "Service is not ready"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	results := h.runChecks(c.Request.Context())

	ready := true
	checks := make(map[string]string, len(results))
	for i, d := range h.deps {
		checks[d.name] = results[i].state
		if !results[i].healthy && !d.optional {
			ready = false
		}
	}
	if len(checks) == 0 {
		checks["service"] = "ok"
	}

	status, label := http.StatusOK, "ok"
	if !ready {
		status, label = http.StatusServiceUnavailable, "degraded"
	}

	body := gin.H{"status": label, "checks": checks}
	if h.cacheMetrics != nil {
		m := h.cacheMetrics()
		body["cache"] = gin.H{
			"generation": m.Generation,
			"entries":    m.Size,
			"hits":       m.Hits,
			"misses":     m.Misses,
		}
	}

	c.JSON(status, body)
}

type checkResult struct {
	state   string
	healthy bool
}

// runChecks runs every dependency check concurrently, each bounded by
// readinessTimeout.
func (h *HealthHandler) runChecks(ctx context.Context) []checkResult {
	results := make([]checkResult, len(h.deps))

	var wg sync.WaitGroup
	for i, d := range h.deps {
		if d.breaker != nil {
			stats := d.breaker.GetStats()
			results[i] = checkResult{state: stats.State, healthy: stats.IsHealthy}
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
			defer cancel()

			if err := d.checker.Check(checkCtx); err != nil {
				results[i] = checkResult{state: err.Error()}
				return
			}
			results[i] = checkResult{state: "ok", healthy: true}
		}()
	}
	wg.Wait()

	return results
}
