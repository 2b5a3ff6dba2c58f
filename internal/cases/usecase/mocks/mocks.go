// Package mocks provides testify mocks for the case use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/cases/domain"
)

// MockCaseUseCase is a mock implementation of usecase.CaseUseCase.
type MockCaseUseCase struct {
	mock.Mock
}

// NewMockCaseUseCase creates a mock whose expectations are asserted on cleanup.
func NewMockCaseUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCaseUseCase {
	m := &MockCaseUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCaseUseCase) one(args mock.Arguments) (*domain.Case, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCaseUseCase) Create(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateCaseInput,
) (*domain.Case, error) {
	return m.one(m.Called(ctx, p, input))
}

func (m *MockCaseUseCase) Get(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Case, error) {
	return m.one(m.Called(ctx, p, id))
}

func (m *MockCaseUseCase) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Case, error) {
	args := m.Called(ctx, p, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Case), args.Error(1)
}

func (m *MockCaseUseCase) Update(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	input *domain.UpdateCaseInput,
) (*domain.Case, error) {
	return m.one(m.Called(ctx, p, id, input))
}

func (m *MockCaseUseCase) Assign(
	ctx context.Context,
	p *authDomain.Principal,
	id, assigneeID uuid.UUID,
) (*domain.Case, error) {
	return m.one(m.Called(ctx, p, id, assigneeID))
}

func (m *MockCaseUseCase) ChangeStatus(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	status domain.Status,
) (*domain.Case, error) {
	return m.one(m.Called(ctx, p, id, status))
}
