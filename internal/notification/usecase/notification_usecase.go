package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/notification/domain"
)

const maxListLimit = 100

type notificationUseCase struct {
	repo NotificationRepository
	now  func() time.Time
}

// NewNotificationUseCase creates a new NotificationUseCase.
func NewNotificationUseCase(repo NotificationRepository) NotificationUseCase {
	return &notificationUseCase{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (uc *notificationUseCase) Notify(
	ctx context.Context,
	tenantID uuid.UUID,
	input *domain.CreateNotificationInput,
) (*domain.Notification, error) {
	scope, err := database.NewScope(tenantID)
	if err != nil {
		return nil, err
	}
	if input.UserID == uuid.Nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "notification recipient is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "notification title is required")
	}

	n := &domain.Notification{
		ID:         uuid.Must(uuid.NewV7()),
		TenantID:   tenantID,
		UserID:     input.UserID,
		Kind:       input.Kind,
		Title:      title,
		Body:       input.Body,
		ResourceID: input.ResourceID,
		CreatedAt:  uc.now(),
	}
	if err := uc.repo.Create(ctx, scope, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (uc *notificationUseCase) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Notification, error) {
	scope, err := database.NewScope(p.TenantID)
	if err != nil {
		return nil, err
	}
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.repo.ListForUser(ctx, scope, p.UserID, filter)
}

func (uc *notificationUseCase) MarkRead(ctx context.Context, p *authDomain.Principal, id uuid.UUID) error {
	scope, err := database.NewScope(p.TenantID)
	if err != nil {
		return err
	}
	return uc.repo.MarkRead(ctx, scope, p.UserID, id, uc.now())
}

func (uc *notificationUseCase) MarkAllRead(ctx context.Context, p *authDomain.Principal) (int64, error) {
	scope, err := database.NewScope(p.TenantID)
	if err != nil {
		return 0, err
	}
	return uc.repo.MarkAllRead(ctx, scope, p.UserID, uc.now())
}

func (uc *notificationUseCase) UnreadCount(ctx context.Context, p *authDomain.Principal) (int, error) {
	scope, err := database.NewScope(p.TenantID)
	if err != nil {
		return 0, err
	}
	return uc.repo.CountUnread(ctx, scope, p.UserID)
}
