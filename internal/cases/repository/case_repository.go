// Package repository implements persistence for service cases.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/cases/domain"
	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
)

var caseColumns = []string{
	"id", "tenant_id", "bus_id", "title", "description", "priority", "status",
	"created_by", "assignee_id", "created_at", "updated_at",
}

// CaseRepository persists service cases.
type CaseRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewCaseRepository creates a new CaseRepository.
func NewCaseRepository(db *sql.DB, dialect database.Dialect) *CaseRepository {
	return &CaseRepository{db: db, dialect: dialect}
}

// Create inserts a new case.
func (r *CaseRepository) Create(ctx context.Context, scope database.Scope, c *domain.Case) error {
	q, err := scope.Insert("cases").
		Set("id", c.ID).
		Set("bus_id", c.BusID).
		Set("title", c.Title).
		Set("description", c.Description).
		Set("priority", string(c.Priority)).
		Set("status", string(c.Status)).
		Set("created_by", c.CreatedBy).
		Set("assignee_id", database.NullUUID(c.AssigneeID)).
		Set("created_at", c.CreatedAt).
		Set("updated_at", c.UpdatedAt).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		return apperrors.Wrap(err, "failed to create case")
	}
	return nil
}

// Update writes the mutable columns of the case.
func (r *CaseRepository) Update(ctx context.Context, scope database.Scope, c *domain.Case) error {
	q, err := scope.Update("cases").
		Set("title", c.Title).
		Set("description", c.Description).
		Set("priority", string(c.Priority)).
		Set("status", string(c.Status)).
		Set("assignee_id", database.NullUUID(c.AssigneeID)).
		Set("updated_at", c.UpdatedAt).
		Where("id = ?", c.ID).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	res, err := querier.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to update case")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return domain.ErrCaseNotFound
	}
	return nil
}

// Get retrieves a case by ID.
func (r *CaseRepository) Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.Case, error) {
	return r.getOne(ctx, scope.Select("cases", caseColumns...).Where("id = ?", id))
}

// GetForUpdate retrieves a case by ID and locks the row for the current transaction.
func (r *CaseRepository) GetForUpdate(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.Case, error) {
	return r.getOne(ctx, scope.Select("cases", caseColumns...).Where("id = ?", id).ForUpdate())
}

// List returns cases, newest first.
func (r *CaseRepository) List(
	ctx context.Context,
	scope database.Scope,
	filter domain.ListFilter,
) ([]*domain.Case, error) {
	b := scope.Select("cases", caseColumns...)
	if filter.Status != "" {
		b = b.Where("status = ?", string(filter.Status))
	}
	if filter.BusID != nil {
		b = b.Where("bus_id = ?", *filter.BusID)
	}
	q, err := b.OrderBy("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list cases")
	}
	defer func() {
		_ = rows.Close()
	}()

	cases := make([]*domain.Case, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan case")
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate cases")
	}
	return cases, nil
}

func (r *CaseRepository) getOne(ctx context.Context, b *database.SelectBuilder) (*domain.Case, error) {
	q, err := b.Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	c, err := scanCase(querier.QueryRowContext(ctx, q.SQL, q.Args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get case")
	}
	return c, nil
}

func scanCase(row database.RowScanner) (*domain.Case, error) {
	var (
		c          domain.Case
		priority   string
		status     string
		assigneeID uuid.NullUUID
	)
	err := row.Scan(
		&c.ID,
		&c.TenantID,
		&c.BusID,
		&c.Title,
		&c.Description,
		&priority,
		&status,
		&c.CreatedBy,
		&assigneeID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Priority = domain.Priority(priority)
	c.Status = domain.Status(status)
	c.AssigneeID = database.UUIDPtr(assigneeID)
	return &c, nil
}
