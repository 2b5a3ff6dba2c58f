// Package mocks provides testify mocks for the authentication use cases.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockSessionUseCase is a mock implementation of SessionUseCase.
type MockSessionUseCase struct {
	mock.Mock
}

// NewMockSessionUseCase creates a mock whose expectations are asserted on cleanup.
func NewMockSessionUseCase(t testingT) *MockSessionUseCase {
	m := &MockSessionUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.LoginOutput), args.Error(1)
}

func (m *MockSessionUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Principal, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

func (m *MockSessionUseCase) Logout(ctx context.Context, principal *authDomain.Principal) error {
	args := m.Called(ctx, principal)
	return args.Error(0)
}

func (m *MockSessionUseCase) CleanExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockPasswordResetUseCase is a mock implementation of PasswordResetUseCase.
type MockPasswordResetUseCase struct {
	mock.Mock
}

// NewMockPasswordResetUseCase creates a mock whose expectations are asserted on cleanup.
func NewMockPasswordResetUseCase(t testingT) *MockPasswordResetUseCase {
	m := &MockPasswordResetUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPasswordResetUseCase) Request(ctx context.Context, input *authDomain.PasswordResetRequest) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockPasswordResetUseCase) Confirm(ctx context.Context, input *authDomain.PasswordResetConfirm) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockPasswordResetUseCase) AdminReset(
	ctx context.Context,
	principal *authDomain.Principal,
	userID uuid.UUID,
) (*authDomain.AdminResetOutput, error) {
	args := m.Called(ctx, principal, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.AdminResetOutput), args.Error(1)
}

// MockUserUseCase is a mock implementation of UserUseCase.
type MockUserUseCase struct {
	mock.Mock
}

// NewMockUserUseCase creates a mock whose expectations are asserted on cleanup.
func NewMockUserUseCase(t testingT) *MockUserUseCase {
	m := &MockUserUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserUseCase) Create(
	ctx context.Context,
	principal *authDomain.Principal,
	input *authDomain.CreateUserInput,
) (*authDomain.User, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *MockUserUseCase) CreateInTenant(
	ctx context.Context,
	tenantID uuid.UUID,
	input *authDomain.CreateUserInput,
) (*authDomain.User, error) {
	args := m.Called(ctx, tenantID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *MockUserUseCase) Get(
	ctx context.Context,
	principal *authDomain.Principal,
	userID uuid.UUID,
) (*authDomain.User, error) {
	args := m.Called(ctx, principal, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *MockUserUseCase) List(
	ctx context.Context,
	principal *authDomain.Principal,
	filter authDomain.UserListFilter,
) ([]*authDomain.User, error) {
	args := m.Called(ctx, principal, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.User), args.Error(1)
}

func (m *MockUserUseCase) Update(
	ctx context.Context,
	principal *authDomain.Principal,
	userID uuid.UUID,
	input *authDomain.UpdateUserInput,
) (*authDomain.User, error) {
	args := m.Called(ctx, principal, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}
