package repository

import (
	"context"

	"github.com/guttosm/nav-service/internal/circuitbreaker"
	"github.com/guttosm/nav-service/internal/domain/model"
)

// breakerGuard holds the breaker shared by the guarded repositories.
type breakerGuard struct {
	cb *circuitbreaker.CircuitBreaker
}

// GetCircuitBreaker returns the breaker, for readiness and metrics.
func (g breakerGuard) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return g.cb
}

// ContentRepositoryWithCircuitBreaker guards a content source. While the
// breaker is open, Query fails fast with circuitbreaker.ErrCircuitOpen and
// the source is not contacted.
type ContentRepositoryWithCircuitBreaker struct {
	breakerGuard
	source ContentRepositoryInterface
}

// NewContentRepositoryWithCircuitBreaker guards source with cb.
func NewContentRepositoryWithCircuitBreaker(source ContentRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *ContentRepositoryWithCircuitBreaker {
	return &ContentRepositoryWithCircuitBreaker{breakerGuard: breakerGuard{cb: cb}, source: source}
}

// Query implements ContentRepositoryInterface.
func (r *ContentRepositoryWithCircuitBreaker) Query(ctx context.Context, filter *ContentFilter) (*model.PageCollection, error) {
	return circuitbreaker.Run(ctx, r.cb, func() (*model.PageCollection, error) {
		return r.source.Query(ctx, filter)
	})
}

// Name implements ContentRepositoryInterface.
func (r *ContentRepositoryWithCircuitBreaker) Name() string {
	return r.source.Name()
}

// RefreshEventsRepositoryWithCircuitBreaker guards the refresh journal
// store. Both operations fail fast with circuitbreaker.ErrCircuitOpen while
// the breaker is open; callers decide whether that drops the event.
type RefreshEventsRepositoryWithCircuitBreaker struct {
	breakerGuard
	store RefreshEventsRepositoryInterface
}

// NewRefreshEventsRepositoryWithCircuitBreaker guards store with cb.
func NewRefreshEventsRepositoryWithCircuitBreaker(store RefreshEventsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *RefreshEventsRepositoryWithCircuitBreaker {
	return &RefreshEventsRepositoryWithCircuitBreaker{breakerGuard: breakerGuard{cb: cb}, store: store}
}

// Create implements RefreshEventsRepositoryInterface.
func (r *RefreshEventsRepositoryWithCircuitBreaker) Create(ctx context.Context, event *model.RefreshEvent) error {
	return r.cb.Execute(ctx, func() error {
		return r.store.Create(ctx, event)
	})
}

// List implements RefreshEventsRepositoryInterface.
func (r *RefreshEventsRepositoryWithCircuitBreaker) List(ctx context.Context, limit int) ([]model.RefreshEvent, error) {
	return circuitbreaker.Run(ctx, r.cb, func() ([]model.RefreshEvent, error) {
		return r.store.List(ctx, limit)
	})
}
