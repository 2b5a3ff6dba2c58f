// Package mocks provides testify mocks for the fleet use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/fleet/domain"
)

// MockBusUseCase is a mock implementation of usecase.BusUseCase.
type MockBusUseCase struct {
	mock.Mock
}

// NewMockBusUseCase creates a mock whose expectations are asserted on cleanup.
func NewMockBusUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBusUseCase {
	m := &MockBusUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBusUseCase) bus(args mock.Arguments) (*domain.Bus, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bus), args.Error(1)
}

func (m *MockBusUseCase) Create(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateBusInput,
) (*domain.Bus, error) {
	return m.bus(m.Called(ctx, p, input))
}

func (m *MockBusUseCase) Get(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Bus, error) {
	return m.bus(m.Called(ctx, p, id))
}

func (m *MockBusUseCase) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Bus, error) {
	args := m.Called(ctx, p, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Bus), args.Error(1)
}

func (m *MockBusUseCase) Update(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	input *domain.UpdateBusInput,
) (*domain.Bus, error) {
	return m.bus(m.Called(ctx, p, id, input))
}

func (m *MockBusUseCase) Retire(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Bus, error) {
	return m.bus(m.Called(ctx, p, id))
}
