// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/nav-service/internal/service"
	"github.com/guttosm/nav-service/internal/service/cache"
	"github.com/stretchr/testify/mock"
)

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) Read(ctx context.Context, tag string) (*service.ContentResult, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ContentResult), args.Error(1)
}

func (m *MockContentService) Refresh(ctx context.Context) (*service.ContentResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ContentResult), args.Error(1)
}

func (m *MockContentService) CacheMetrics() cache.Metrics {
	args := m.Called()
	return args.Get(0).(cache.Metrics)
}
