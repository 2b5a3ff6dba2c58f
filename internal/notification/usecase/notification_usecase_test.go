package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/notification/domain"
)

type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) Create(ctx context.Context, scope database.Scope, n *domain.Notification) error {
	args := m.Called(ctx, scope, n)
	return args.Error(0)
}

func (m *mockNotificationRepository) ListForUser(
	ctx context.Context,
	scope database.Scope,
	userID uuid.UUID,
	filter domain.ListFilter,
) ([]*domain.Notification, error) {
	args := m.Called(ctx, scope, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *mockNotificationRepository) MarkRead(
	ctx context.Context,
	scope database.Scope,
	userID, id uuid.UUID,
	at time.Time,
) error {
	args := m.Called(ctx, scope, userID, id, at)
	return args.Error(0)
}

func (m *mockNotificationRepository) MarkAllRead(
	ctx context.Context,
	scope database.Scope,
	userID uuid.UUID,
	at time.Time,
) (int64, error) {
	args := m.Called(ctx, scope, userID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepository) CountUnread(
	ctx context.Context,
	scope database.Scope,
	userID uuid.UUID,
) (int, error) {
	args := m.Called(ctx, scope, userID)
	return args.Int(0), args.Error(1)
}

func newPrincipal() *authDomain.Principal {
	return &authDomain.Principal{
		UserID:   uuid.Must(uuid.NewV7()),
		TenantID: uuid.Must(uuid.NewV7()),
		Role:     authDomain.RoleTechnician,
	}
}

func scopeFor(tenantID uuid.UUID) any {
	return mock.MatchedBy(func(s database.Scope) bool { return s.TenantID() == tenantID })
}

func TestNotificationUseCase_Notify(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		uc := NewNotificationUseCase(repo)
		resourceID := uuid.Must(uuid.NewV7())
		input := &domain.CreateNotificationInput{
			UserID:     uuid.Must(uuid.NewV7()),
			Kind:       domain.KindCaseAssigned,
			Title:      "  Case assigned ",
			ResourceID: &resourceID,
		}

		repo.On("Create", ctx, scopeFor(tenantID), mock.MatchedBy(func(n *domain.Notification) bool {
			return n.TenantID == tenantID && n.UserID == input.UserID && n.Title == "Case assigned"
		})).Return(nil).Once()

		n, err := uc.Notify(ctx, tenantID, input)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, n.ID)
		assert.Equal(t, &resourceID, n.ResourceID)
		assert.False(t, n.IsRead())
		repo.AssertExpectations(t)
	})

	t.Run("Error_MissingRecipient", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		uc := NewNotificationUseCase(repo)

		_, err := uc.Notify(ctx, tenantID, &domain.CreateNotificationInput{Title: "x"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("Error_BlankTitle", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		uc := NewNotificationUseCase(repo)

		_, err := uc.Notify(ctx, tenantID, &domain.CreateNotificationInput{UserID: uuid.New(), Title: "   "})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_MissingTenant", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		uc := NewNotificationUseCase(repo)

		_, err := uc.Notify(ctx, uuid.Nil, &domain.CreateNotificationInput{UserID: uuid.New(), Title: "x"})
		assert.ErrorIs(t, err, database.ErrMissingTenant)
	})
}

func TestNotificationUseCase_List(t *testing.T) {
	ctx := context.Background()
	p := newPrincipal()

	tests := []struct {
		name     string
		filter   domain.ListFilter
		expected domain.ListFilter
	}{
		{"KeepsValidLimit", domain.ListFilter{Limit: 20, Offset: 40}, domain.ListFilter{Limit: 20, Offset: 40}},
		{"DefaultsZeroLimit", domain.ListFilter{}, domain.ListFilter{Limit: maxListLimit}},
		{"CapsLargeLimit", domain.ListFilter{Limit: 1000}, domain.ListFilter{Limit: maxListLimit}},
		{"ClampsNegativeOffset", domain.ListFilter{Limit: 5, Offset: -1}, domain.ListFilter{Limit: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockNotificationRepository{}
			uc := NewNotificationUseCase(repo)

			repo.On("ListForUser", ctx, scopeFor(p.TenantID), p.UserID, tt.expected).
				Return([]*domain.Notification{}, nil).
				Once()

			got, err := uc.List(ctx, p, tt.filter)
			require.NoError(t, err)
			assert.Empty(t, got)
			repo.AssertExpectations(t)
		})
	}
}

func TestNotificationUseCase_MarkRead(t *testing.T) {
	ctx := context.Background()
	p := newPrincipal()
	id := uuid.Must(uuid.NewV7())

	repo := &mockNotificationRepository{}
	uc := NewNotificationUseCase(repo)

	repo.On("MarkRead", ctx, scopeFor(p.TenantID), p.UserID, id, mock.AnythingOfType("time.Time")).
		Return(domain.ErrNotificationNotFound).
		Once()

	err := uc.MarkRead(ctx, p, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestNotificationUseCase_MarkAllReadAndCount(t *testing.T) {
	ctx := context.Background()
	p := newPrincipal()

	repo := &mockNotificationRepository{}
	uc := NewNotificationUseCase(repo)

	repo.On("MarkAllRead", ctx, scopeFor(p.TenantID), p.UserID, mock.AnythingOfType("time.Time")).
		Return(int64(2), nil).
		Once()
	repo.On("CountUnread", ctx, scopeFor(p.TenantID), p.UserID).Return(0, nil).Once()

	changed, err := uc.MarkAllRead(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	count, err := uc.UnreadCount(ctx, p)
	require.NoError(t, err)
	assert.Zero(t, count)
	repo.AssertExpectations(t)
}
