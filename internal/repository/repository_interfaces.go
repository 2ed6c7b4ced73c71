package repository

import (
	"context"
	"errors"

	"github.com/guttosm/nav-service/internal/domain/model"
)

// ErrUpstreamStatus is returned when the content source answers with a non-success status.
var ErrUpstreamStatus = errors.New("content source returned an error status")

// ContentFilter restricts a content query to pages whose multi-value
// property contains a label.
type ContentFilter struct {
	Property string
	Contains string
}

// CategoryFilter returns the filter selecting pages tagged with tag.
func CategoryFilter(tag string) *ContentFilter {
	return &ContentFilter{Property: model.CategoryProperty, Contains: tag}
}

// ContentRepositoryInterface is the content source queried on cache misses.
// A nil filter returns the unfiltered collection.
type ContentRepositoryInterface interface {
	Query(ctx context.Context, filter *ContentFilter) (*model.PageCollection, error)
	// Name identifies the source in logs and metrics.
	Name() string
}

// RefreshEventsRepositoryInterface defines the interface for refresh journal operations.
type RefreshEventsRepositoryInterface interface {
	Create(ctx context.Context, event *model.RefreshEvent) error
	List(ctx context.Context, limit int) ([]model.RefreshEvent, error)
}
