package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/sts/domain"
)

var commentColumns = []string{"id", "tenant_id", "ticket_id", "author_id", "body", "internal", "created_at"}

// CommentRepository persists ticket comments.
type CommentRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *sql.DB, dialect database.Dialect) *CommentRepository {
	return &CommentRepository{db: db, dialect: dialect}
}

// Create inserts a new comment.
func (r *CommentRepository) Create(ctx context.Context, scope database.Scope, c *domain.Comment) error {
	q, err := scope.Insert("sts_comments").
		Set("id", c.ID).
		Set("ticket_id", c.TicketID).
		Set("author_id", c.AuthorID).
		Set("body", c.Body).
		Set("internal", c.Internal).
		Set("created_at", c.CreatedAt).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		return apperrors.Wrap(err, "failed to create comment")
	}
	return nil
}

// ListByTicket returns the comments of a ticket, oldest first. Internal comments are
// skipped unless includeInternal is set.
func (r *CommentRepository) ListByTicket(
	ctx context.Context,
	scope database.Scope,
	ticketID uuid.UUID,
	includeInternal bool,
) ([]*domain.Comment, error) {
	b := scope.Select("sts_comments", commentColumns...).Where("ticket_id = ?", ticketID)
	if !includeInternal {
		b = b.Where("internal = ?", false)
	}
	q, err := b.OrderBy("created_at ASC").Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list comments")
	}
	defer func() {
		_ = rows.Close()
	}()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.TenantID, &c.TicketID, &c.AuthorID, &c.Body, &c.Internal, &c.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan comment")
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate comments")
	}
	return comments, nil
}

// DeleteByTicket removes every comment of a ticket.
func (r *CommentRepository) DeleteByTicket(ctx context.Context, scope database.Scope, ticketID uuid.UUID) error {
	q, err := scope.Delete("sts_comments").Where("ticket_id = ?", ticketID).Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		return apperrors.Wrap(err, "failed to delete comments")
	}
	return nil
}
