// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/nav-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockRefreshEventsRepositoryInterface struct {
	mock.Mock
}

func (m *MockRefreshEventsRepositoryInterface) Create(ctx context.Context, event *model.RefreshEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRefreshEventsRepositoryInterface) List(ctx context.Context, limit int) ([]model.RefreshEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RefreshEvent), args.Error(1)
}
