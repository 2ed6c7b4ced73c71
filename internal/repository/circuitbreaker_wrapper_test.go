//go:build !integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/nav-service/internal/circuitbreaker"
	"github.com/guttosm/nav-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubContentRepository struct {
	col   *model.PageCollection
	err   error
	calls int
}

func (s *stubContentRepository) Query(_ context.Context, _ *ContentFilter) (*model.PageCollection, error) {
	s.calls++
	return s.col, s.err
}

func (s *stubContentRepository) Name() string { return "stub" }

type stubRefreshEventsRepository struct {
	events []model.RefreshEvent
	err    error
	calls  int
}

func (s *stubRefreshEventsRepository) Create(_ context.Context, event *model.RefreshEvent) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, *event)
	return nil
}

func (s *stubRefreshEventsRepository) List(_ context.Context, _ int) ([]model.RefreshEvent, error) {
	s.calls++
	return s.events, s.err
}

func newTestBreaker() *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "test",
	})
}

func TestContentRepositoryWithCircuitBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("passes results through", func(t *testing.T) {
		col := &model.PageCollection{Object: "list", Results: []model.Page{model.NewPage("1", "A")}}
		stub := &stubContentRepository{col: col}
		repo := NewContentRepositoryWithCircuitBreaker(stub, newTestBreaker())

		got, err := repo.Query(ctx, nil)
		require.NoError(t, err)
		assert.Same(t, col, got)
		assert.Equal(t, "stub", repo.Name())
	})

	t.Run("opens after failures and stops calling the source", func(t *testing.T) {
		stub := &stubContentRepository{err: errors.New("boom")}
		cb := newTestBreaker()
		repo := NewContentRepositoryWithCircuitBreaker(stub, cb)

		for i := 0; i < 2; i++ {
			_, err := repo.Query(ctx, nil)
			assert.EqualError(t, err, "boom")
		}
		assert.True(t, repo.GetCircuitBreaker().IsOpen())

		got, err := repo.Query(ctx, nil)
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
		assert.Nil(t, got)
		assert.Equal(t, 2, stub.calls)
	})
}

func TestRefreshEventsRepositoryWithCircuitBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("create and list", func(t *testing.T) {
		stub := &stubRefreshEventsRepository{}
		repo := NewRefreshEventsRepositoryWithCircuitBreaker(stub, newTestBreaker())

		require.NoError(t, repo.Create(ctx, &model.RefreshEvent{Status: model.RefreshStatusSuccess}))
		events, err := repo.List(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("fails fast while open", func(t *testing.T) {
		stub := &stubRefreshEventsRepository{err: errors.New("down")}
		repo := NewRefreshEventsRepositoryWithCircuitBreaker(stub, newTestBreaker())

		assert.Error(t, repo.Create(ctx, &model.RefreshEvent{}))
		assert.Error(t, repo.Create(ctx, &model.RefreshEvent{}))
		require.True(t, repo.GetCircuitBreaker().IsOpen())

		assert.ErrorIs(t, repo.Create(ctx, &model.RefreshEvent{}), circuitbreaker.ErrCircuitOpen)
		assert.Equal(t, 2, stub.calls)

		_, err := repo.List(ctx, 10)
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	})
}
