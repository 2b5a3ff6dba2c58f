// Package mocks provides testify mocks for the tenant use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/capitaldesk/desk/internal/tenant/domain"
)

// MockTenantUseCase is a mock implementation of TenantUseCase.
type MockTenantUseCase struct {
	mock.Mock
}

// NewMockTenantUseCase creates a mock whose expectations are asserted on cleanup.
func NewMockTenantUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTenantUseCase {
	m := &MockTenantUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTenantUseCase) tenant(args mock.Arguments) (*domain.Tenant, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantUseCase) Create(ctx context.Context, input *domain.CreateTenantInput) (*domain.Tenant, error) {
	return m.tenant(m.Called(ctx, input))
}

func (m *MockTenantUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return m.tenant(m.Called(ctx, id))
}

func (m *MockTenantUseCase) ResolveActive(ctx context.Context, slug string) (*domain.Tenant, error) {
	return m.tenant(m.Called(ctx, slug))
}

func (m *MockTenantUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Tenant, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tenant), args.Error(1)
}
