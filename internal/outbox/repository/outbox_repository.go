// Package repository provides data persistence implementations for outbox entities.
package repository

import (
	"context"
	"database/sql"

	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/outbox/domain"
)

// OutboxEventRepository handles outbox event persistence
type OutboxEventRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewOutboxEventRepository creates a new OutboxEventRepository
func NewOutboxEventRepository(db *sql.DB, dialect database.Dialect) *OutboxEventRepository {
	return &OutboxEventRepository{
		db:      db,
		dialect: dialect,
	}
}

// Create inserts a new outbox event for the scope's tenant. Call it inside the
// transaction that performs the state change.
func (r *OutboxEventRepository) Create(ctx context.Context, scope database.Scope, event *domain.OutboxEvent) error {
	q, err := scope.Insert("outbox_events").
		Set("id", event.ID).
		Set("event_type", event.EventType).
		Set("payload", event.Payload).
		Set("status", string(event.Status)).
		Set("retries", event.Retries).
		Set("last_error", event.LastError).
		Set("processed_at", database.NullTime(event.ProcessedAt)).
		Set("created_at", event.CreatedAt).
		Set("updated_at", event.UpdatedAt).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		return apperrors.Wrap(err, "failed to create outbox event")
	}
	return nil
}

// GetPendingEvents retrieves pending events of every tenant, oldest first, locking
// them so concurrent workers skip each other's batches.
//
// Unscoped: the worker serves all tenants; each event carries its tenant.
func (r *OutboxEventRepository) GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if !database.InTx(ctx) {
		return nil, database.ErrNoTransaction
	}
	querier := database.GetTx(ctx, r.db)

	query := database.Rebind(r.dialect, `SELECT id, tenant_id, event_type, payload, status, retries, last_error,
			  processed_at, created_at, updated_at
			  FROM outbox_events
			  WHERE status = ?
			  ORDER BY created_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`)

	rows, err := querier.QueryContext(ctx, query, string(domain.OutboxEventStatusPending), limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get pending outbox events")
	}
	defer rows.Close() //nolint:errcheck

	var events []*domain.OutboxEvent
	for rows.Next() {
		var (
			event       domain.OutboxEvent
			status      string
			lastError   sql.NullString
			processedAt sql.NullTime
		)

		err := rows.Scan(&event.ID, &event.TenantID, &event.EventType, &event.Payload, &status,
			&event.Retries, &lastError, &processedAt, &event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan outbox event")
		}

		event.Status = domain.OutboxEventStatus(status)
		if lastError.Valid {
			event.LastError = &lastError.String
		}
		event.ProcessedAt = database.TimePtr(processedAt)
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate outbox events")
	}

	return events, nil
}

// Update records the delivery outcome of an event.
//
// Unscoped: called by the worker on rows it has just locked by id.
func (r *OutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := database.Rebind(r.dialect, `UPDATE outbox_events
			  SET status = ?, retries = ?, last_error = ?, processed_at = ?, updated_at = ?
			  WHERE id = ?`)

	_, err := querier.ExecContext(ctx, query, string(event.Status), event.Retries, event.LastError,
		database.NullTime(event.ProcessedAt), event.UpdatedAt, event.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update outbox event")
	}
	return nil
}
