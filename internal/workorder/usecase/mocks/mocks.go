// Package mocks provides testify mocks for the work order use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/workorder/domain"
)

// MockWorkOrderUseCase is a mock implementation of usecase.WorkOrderUseCase.
type MockWorkOrderUseCase struct {
	mock.Mock
}

// NewMockWorkOrderUseCase creates a mock whose expectations are asserted on cleanup.
func NewMockWorkOrderUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkOrderUseCase {
	m := &MockWorkOrderUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockWorkOrderUseCase) one(args mock.Arguments) (*domain.WorkOrder, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderUseCase) Create(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateWorkOrderInput,
) (*domain.WorkOrder, error) {
	return m.one(m.Called(ctx, p, input))
}

func (m *MockWorkOrderUseCase) Get(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
) (*domain.WorkOrder, error) {
	return m.one(m.Called(ctx, p, id))
}

func (m *MockWorkOrderUseCase) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.WorkOrder, error) {
	args := m.Called(ctx, p, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderUseCase) Assign(
	ctx context.Context,
	p *authDomain.Principal,
	id, technicianID uuid.UUID,
) (*domain.WorkOrder, error) {
	return m.one(m.Called(ctx, p, id, technicianID))
}

func (m *MockWorkOrderUseCase) ChangeStatus(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	status domain.Status,
) (*domain.WorkOrder, error) {
	return m.one(m.Called(ctx, p, id, status))
}
