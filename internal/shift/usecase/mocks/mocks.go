// Package mocks provides testify mocks for the shift use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/shift/domain"
)

// MockShiftUseCase is a mock implementation of usecase.ShiftUseCase.
type MockShiftUseCase struct {
	mock.Mock
}

// NewMockShiftUseCase creates a mock whose expectations are asserted on cleanup.
func NewMockShiftUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockShiftUseCase {
	m := &MockShiftUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockShiftUseCase) Create(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateShiftInput,
) (*domain.Shift, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shift), args.Error(1)
}

func (m *MockShiftUseCase) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Shift, error) {
	args := m.Called(ctx, p, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Shift), args.Error(1)
}

func (m *MockShiftUseCase) Delete(ctx context.Context, p *authDomain.Principal, id uuid.UUID) error {
	return m.Called(ctx, p, id).Error(0)
}
