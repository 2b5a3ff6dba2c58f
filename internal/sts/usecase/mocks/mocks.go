// Package mocks provides testify mocks for the STS use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/sts/domain"
)

// MockStsUseCase is a mock implementation of usecase.StsUseCase.
type MockStsUseCase struct {
	mock.Mock
}

// NewMockStsUseCase creates a mock whose expectations are asserted on cleanup.
func NewMockStsUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStsUseCase {
	m := &MockStsUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func ticketResult(args mock.Arguments) (*domain.Ticket, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockStsUseCase) Summary(ctx context.Context, p *authDomain.Principal) (*domain.Summary, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Summary), args.Error(1)
}

func (m *MockStsUseCase) CreateTicket(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateTicketInput,
) (*domain.Ticket, error) {
	return ticketResult(m.Called(ctx, p, input))
}

func (m *MockStsUseCase) GetTicket(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Ticket, error) {
	return ticketResult(m.Called(ctx, p, id))
}

func (m *MockStsUseCase) ListTickets(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Ticket, error) {
	args := m.Called(ctx, p, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ticket), args.Error(1)
}

func (m *MockStsUseCase) UpdateTicket(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	input *domain.UpdateTicketInput,
) (*domain.Ticket, error) {
	return ticketResult(m.Called(ctx, p, id, input))
}

func (m *MockStsUseCase) AssignTicket(
	ctx context.Context,
	p *authDomain.Principal,
	id, assigneeID uuid.UUID,
) (*domain.Ticket, error) {
	return ticketResult(m.Called(ctx, p, id, assigneeID))
}

func (m *MockStsUseCase) ChangeStatus(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	status domain.Status,
) (*domain.Ticket, error) {
	return ticketResult(m.Called(ctx, p, id, status))
}

func (m *MockStsUseCase) CloseTicket(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Ticket, error) {
	return ticketResult(m.Called(ctx, p, id))
}

func (m *MockStsUseCase) DeleteTicket(ctx context.Context, p *authDomain.Principal, id uuid.UUID) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockStsUseCase) AddComment(
	ctx context.Context,
	p *authDomain.Principal,
	ticketID uuid.UUID,
	input *domain.CreateCommentInput,
) (*domain.Comment, error) {
	args := m.Called(ctx, p, ticketID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockStsUseCase) ListComments(
	ctx context.Context,
	p *authDomain.Principal,
	ticketID uuid.UUID,
) ([]*domain.Comment, error) {
	args := m.Called(ctx, p, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}
