// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/nav-service/internal/domain/model"
	"github.com/guttosm/nav-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockContentRepositoryInterface struct {
	mock.Mock
}

func (m *MockContentRepositoryInterface) Query(ctx context.Context, filter *repository.ContentFilter) (*model.PageCollection, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PageCollection), args.Error(1)
}

func (m *MockContentRepositoryInterface) Name() string {
	args := m.Called()
	return args.String(0)
}
