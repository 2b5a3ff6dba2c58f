// Package mocks provides testify mocks for the notification use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/notification/domain"
)

// MockNotificationUseCase is a mock implementation of usecase.NotificationUseCase.
type MockNotificationUseCase struct {
	mock.Mock
}

// NewMockNotificationUseCase creates a mock whose expectations are asserted on cleanup.
func NewMockNotificationUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotificationUseCase {
	m := &MockNotificationUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNotificationUseCase) Notify(
	ctx context.Context,
	tenantID uuid.UUID,
	input *domain.CreateNotificationInput,
) (*domain.Notification, error) {
	args := m.Called(ctx, tenantID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockNotificationUseCase) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Notification, error) {
	args := m.Called(ctx, p, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *MockNotificationUseCase) MarkRead(ctx context.Context, p *authDomain.Principal, id uuid.UUID) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

func (m *MockNotificationUseCase) MarkAllRead(ctx context.Context, p *authDomain.Principal) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationUseCase) UnreadCount(ctx context.Context, p *authDomain.Principal) (int, error) {
	args := m.Called(ctx, p)
	return args.Int(0), args.Error(1)
}
