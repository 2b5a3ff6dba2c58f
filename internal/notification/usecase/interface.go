// Package usecase implements notification delivery and the recipient's inbox.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/database"
	"github.com/capitaldesk/desk/internal/notification/domain"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, scope database.Scope, n *domain.Notification) error
	ListForUser(
		ctx context.Context,
		scope database.Scope,
		userID uuid.UUID,
		filter domain.ListFilter,
	) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, scope database.Scope, userID, id uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, scope database.Scope, userID uuid.UUID, at time.Time) (int64, error)
	CountUnread(ctx context.Context, scope database.Scope, userID uuid.UUID) (int, error)
}

// NotificationUseCase defines notification operations.
type NotificationUseCase interface {
	// Notify delivers a notification to a user of the given tenant. It is called by
	// the outbox worker, which has no principal.
	Notify(
		ctx context.Context,
		tenantID uuid.UUID,
		input *domain.CreateNotificationInput,
	) (*domain.Notification, error)

	// List returns the principal's own notifications, newest first.
	List(ctx context.Context, p *authDomain.Principal, filter domain.ListFilter) ([]*domain.Notification, error)

	// MarkRead marks one of the principal's notifications read.
	// Returns ErrNotificationNotFound for notifications of other users.
	MarkRead(ctx context.Context, p *authDomain.Principal, id uuid.UUID) error

	// MarkAllRead marks every notification of the principal read and returns how many changed.
	MarkAllRead(ctx context.Context, p *authDomain.Principal) (int64, error)

	UnreadCount(ctx context.Context, p *authDomain.Principal) (int, error)
}
