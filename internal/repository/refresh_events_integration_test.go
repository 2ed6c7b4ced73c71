//go:build integration

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

func TestRefreshEventsRepository_CreateAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewRefreshEventsRepository(db)
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 3; i++ {
		event := &model.RefreshEvent{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Status:     model.RefreshStatusSuccess,
			Pages:      i,
			Generation: uint64(i + 1),
		}
		require.NoError(t, repo.Create(ctx, event))
		assert.False(t, event.ID.IsZero())
	}

	failed := &model.RefreshEvent{Status: model.RefreshStatusFailed, Error: "upstream down"}
	require.NoError(t, repo.Create(ctx, failed))
	assert.False(t, failed.Timestamp.IsZero())

	events, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.RefreshStatusFailed, events[0].Status)
	assert.Equal(t, "upstream down", events[0].Error)
	assert.Equal(t, uint64(3), events[1].Generation)

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRefreshEventsRepositoryWithCircuitBreaker_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t)
	repo := NewRefreshEventsRepository(db)
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "refresh-events",
	})
	wrapped := NewRefreshEventsRepositoryWithCircuitBreaker(repo, cb)

	require.NoError(t, wrapped.Create(ctx, &model.RefreshEvent{Status: model.RefreshStatusSuccess}))
	events, err := wrapped.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	// a closed client makes every call fail and opens the circuit
	require.NoError(t, db.Close(ctx))
	_, err = wrapped.List(ctx, 10)
	require.Error(t, err)
	assert.False(t, errors.Is(err, circuitbreaker.ErrCircuitOpen))
	assert.True(t, cb.IsOpen())

	assert.ErrorIs(t, wrapped.Create(ctx, &model.RefreshEvent{}), circuitbreaker.ErrCircuitOpen)
}
