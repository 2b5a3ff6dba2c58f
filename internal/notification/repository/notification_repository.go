// Package repository provides persistence for notifications.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/notification/domain"
)

var notificationColumns = []string{
	"id", "tenant_id", "user_id", "kind", "title", "body", "resource_id", "read_at", "created_at",
}

// NotificationRepository persists notifications.
type NotificationRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sql.DB, dialect database.Dialect) *NotificationRepository {
	return &NotificationRepository{db: db, dialect: dialect}
}

// Create inserts a notification.
func (r *NotificationRepository) Create(ctx context.Context, scope database.Scope, n *domain.Notification) error {
	q, err := scope.Insert("notifications").
		Set("id", n.ID).
		Set("user_id", n.UserID).
		Set("kind", string(n.Kind)).
		Set("title", n.Title).
		Set("body", n.Body).
		Set("resource_id", database.NullUUID(n.ResourceID)).
		Set("read_at", database.NullTime(n.ReadAt)).
		Set("created_at", n.CreatedAt).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		return apperrors.Wrap(err, "failed to create notification")
	}
	return nil
}

// ListForUser returns a user's notifications, newest first.
func (r *NotificationRepository) ListForUser(
	ctx context.Context,
	scope database.Scope,
	userID uuid.UUID,
	filter domain.ListFilter,
) ([]*domain.Notification, error) {
	b := scope.Select("notifications", notificationColumns...).Where("user_id = ?", userID)
	if filter.UnreadOnly {
		b = b.Where("read_at IS NULL")
	}
	q, err := b.OrderBy("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list notifications")
	}
	defer rows.Close() //nolint:errcheck

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		var (
			n          domain.Notification
			kind       string
			resourceID uuid.NullUUID
			readAt     sql.NullTime
		)
		if err := rows.Scan(&n.ID, &n.TenantID, &n.UserID, &kind, &n.Title, &n.Body,
			&resourceID, &readAt, &n.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan notification")
		}
		n.Kind = domain.Kind(kind)
		n.ResourceID = database.UUIDPtr(resourceID)
		n.ReadAt = database.TimePtr(readAt)
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate notifications")
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications read. Marking an already read
// notification again is not an error.
func (r *NotificationRepository) MarkRead(
	ctx context.Context,
	scope database.Scope,
	userID, id uuid.UUID,
	at time.Time,
) error {
	q, err := scope.Update("notifications").
		Set("read_at", at).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	res, err := querier.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark notification read")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if n > 0 {
		return nil
	}

	exists, err := r.exists(ctx, scope, userID, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user read.
func (r *NotificationRepository) MarkAllRead(
	ctx context.Context,
	scope database.Scope,
	userID uuid.UUID,
	at time.Time,
) (int64, error) {
	q, err := scope.Update("notifications").
		Set("read_at", at).
		Where("user_id = ? AND read_at IS NULL", userID).
		Build(r.dialect)
	if err != nil {
		return 0, err
	}

	querier := database.GetTx(ctx, r.db)
	res, err := querier.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to mark notifications read")
	}
	return res.RowsAffected()
}

// CountUnread returns the number of unread notifications of the user.
func (r *NotificationRepository) CountUnread(ctx context.Context, scope database.Scope, userID uuid.UUID) (int, error) {
	q, err := scope.Select("notifications", "COUNT(*)").
		Where("user_id = ? AND read_at IS NULL", userID).
		Build(r.dialect)
	if err != nil {
		return 0, err
	}

	var count int
	querier := database.GetTx(ctx, r.db)
	if err := querier.QueryRowContext(ctx, q.SQL, q.Args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count unread notifications")
	}
	return count, nil
}

func (r *NotificationRepository) exists(ctx context.Context, scope database.Scope, userID, id uuid.UUID) (bool, error) {
	q, err := scope.Select("notifications", "COUNT(*)").
		Where("id = ? AND user_id = ?", id, userID).
		Build(r.dialect)
	if err != nil {
		return false, err
	}

	var count int
	querier := database.GetTx(ctx, r.db)
	if err := querier.QueryRowContext(ctx, q.SQL, q.Args...).Scan(&count); err != nil {
		return false, apperrors.Wrap(err, "failed to look up notification")
	}
	return count > 0, nil
}
