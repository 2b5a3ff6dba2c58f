// Package repository implements persistence for STS tickets and their comments.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/sts/domain"
)

var ticketColumns = []string{
	"id", "tenant_id", "subject", "body", "category", "priority", "status",
	"created_by", "assignee_id", "closed_at", "created_at", "updated_at",
}

// TicketRepository persists STS tickets.
type TicketRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewTicketRepository creates a new TicketRepository.
func NewTicketRepository(db *sql.DB, dialect database.Dialect) *TicketRepository {
	return &TicketRepository{db: db, dialect: dialect}
}

// Create inserts a new ticket.
func (r *TicketRepository) Create(ctx context.Context, scope database.Scope, t *domain.Ticket) error {
	q, err := scope.Insert("sts_tickets").
		Set("id", t.ID).
		Set("subject", t.Subject).
		Set("body", t.Body).
		Set("category", t.Category).
		Set("priority", string(t.Priority)).
		Set("status", string(t.Status)).
		Set("created_by", t.CreatedBy).
		Set("assignee_id", database.NullUUID(t.AssigneeID)).
		Set("closed_at", database.NullTime(t.ClosedAt)).
		Set("created_at", t.CreatedAt).
		Set("updated_at", t.UpdatedAt).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		return apperrors.Wrap(err, "failed to create ticket")
	}
	return nil
}

// Update writes the mutable columns of the ticket.
func (r *TicketRepository) Update(ctx context.Context, scope database.Scope, t *domain.Ticket) error {
	q, err := scope.Update("sts_tickets").
		Set("subject", t.Subject).
		Set("body", t.Body).
		Set("category", t.Category).
		Set("priority", string(t.Priority)).
		Set("status", string(t.Status)).
		Set("assignee_id", database.NullUUID(t.AssigneeID)).
		Set("closed_at", database.NullTime(t.ClosedAt)).
		Set("updated_at", t.UpdatedAt).
		Where("id = ?", t.ID).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	res, err := querier.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to update ticket")
	}
	return requireAffected(res)
}

// Delete removes a ticket. Comments must be removed first.
func (r *TicketRepository) Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error {
	q, err := scope.Delete("sts_tickets").Where("id = ?", id).Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	res, err := querier.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete ticket")
	}
	return requireAffected(res)
}

// Get retrieves a ticket by ID.
func (r *TicketRepository) Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.Ticket, error) {
	return r.getOne(ctx, scope.Select("sts_tickets", ticketColumns...).Where("id = ?", id))
}

// GetForUpdate retrieves a ticket by ID and locks the row for the current transaction.
func (r *TicketRepository) GetForUpdate(
	ctx context.Context,
	scope database.Scope,
	id uuid.UUID,
) (*domain.Ticket, error) {
	return r.getOne(ctx, scope.Select("sts_tickets", ticketColumns...).Where("id = ?", id).ForUpdate())
}

// List returns tickets, newest first.
func (r *TicketRepository) List(
	ctx context.Context,
	scope database.Scope,
	filter domain.ListFilter,
) ([]*domain.Ticket, error) {
	b := scope.Select("sts_tickets", ticketColumns...)
	if filter.Status != "" {
		b = b.Where("status = ?", string(filter.Status))
	}
	if filter.Category != "" {
		b = b.Where("category = ?", filter.Category)
	}
	if filter.AssigneeID != nil {
		b = b.Where("assignee_id = ?", *filter.AssigneeID)
	}
	q, err := b.OrderBy("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tickets")
	}
	defer func() {
		_ = rows.Close()
	}()

	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan ticket")
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tickets")
	}
	return tickets, nil
}

// CountByStatus returns the number of tickets per status.
func (r *TicketRepository) CountByStatus(ctx context.Context, scope database.Scope) (*domain.Summary, error) {
	q, err := scope.Select("sts_tickets", "status", "COUNT(*)").GroupBy("status").Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count tickets")
	}
	defer func() {
		_ = rows.Close()
	}()

	summary := domain.NewSummary()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan ticket count")
		}
		summary.Add(domain.Status(status), n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate ticket counts")
	}
	return summary, nil
}

func (r *TicketRepository) getOne(ctx context.Context, b *database.SelectBuilder) (*domain.Ticket, error) {
	q, err := b.Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	t, err := scanTicket(querier.QueryRowContext(ctx, q.SQL, q.Args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get ticket")
	}
	return t, nil
}

func scanTicket(row database.RowScanner) (*domain.Ticket, error) {
	var (
		t          domain.Ticket
		priority   string
		status     string
		assigneeID uuid.NullUUID
		closedAt   sql.NullTime
	)
	err := row.Scan(
		&t.ID,
		&t.TenantID,
		&t.Subject,
		&t.Body,
		&t.Category,
		&priority,
		&status,
		&t.CreatedBy,
		&assigneeID,
		&closedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Priority = domain.Priority(priority)
	t.Status = domain.Status(status)
	t.AssigneeID = database.UUIDPtr(assigneeID)
	t.ClosedAt = database.TimePtr(closedAt)
	return &t, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}
