// Package repository implements persistence for technician shifts.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/shift/domain"
)

var shiftColumns = []string{
	"id", "tenant_id", "technician_id", "starts_at", "ends_at", "depot", "note",
	"created_by", "created_at", "updated_at",
}

// ShiftRepository persists shifts.
type ShiftRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewShiftRepository creates a new ShiftRepository.
func NewShiftRepository(db *sql.DB, dialect database.Dialect) *ShiftRepository {
	return &ShiftRepository{db: db, dialect: dialect}
}

// Create inserts a new shift.
func (r *ShiftRepository) Create(ctx context.Context, scope database.Scope, s *domain.Shift) error {
	q, err := scope.Insert("shifts").
		Set("id", s.ID).
		Set("technician_id", s.TechnicianID).
		Set("starts_at", s.StartsAt).
		Set("ends_at", s.EndsAt).
		Set("depot", s.Depot).
		Set("note", s.Note).
		Set("created_by", s.CreatedBy).
		Set("created_at", s.CreatedAt).
		Set("updated_at", s.UpdatedAt).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		return apperrors.Wrap(err, "failed to create shift")
	}
	return nil
}

// HasOverlap reports whether the technician has a shift intersecting [from, to).
func (r *ShiftRepository) HasOverlap(
	ctx context.Context,
	scope database.Scope,
	technicianID uuid.UUID,
	from, to time.Time,
) (bool, error) {
	q, err := scope.Select("shifts", "id").
		Where("technician_id = ?", technicianID).
		Where("starts_at < ? AND ends_at > ?", to, from).
		Limit(1).
		Build(r.dialect)
	if err != nil {
		return false, err
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check overlapping shifts")
	}
	defer func() {
		_ = rows.Close()
	}()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, apperrors.Wrap(err, "failed to check overlapping shifts")
	}
	return found, nil
}

// List returns the shifts intersecting the filter range, earliest first.
func (r *ShiftRepository) List(
	ctx context.Context,
	scope database.Scope,
	filter domain.ListFilter,
) ([]*domain.Shift, error) {
	b := scope.Select("shifts", shiftColumns...).
		Where("starts_at < ? AND ends_at > ?", filter.To, filter.From)
	if filter.TechnicianID != nil {
		b = b.Where("technician_id = ?", *filter.TechnicianID)
	}
	q, err := b.OrderBy("starts_at ASC").Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list shifts")
	}
	defer func() {
		_ = rows.Close()
	}()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		var s domain.Shift
		err := rows.Scan(
			&s.ID,
			&s.TenantID,
			&s.TechnicianID,
			&s.StartsAt,
			&s.EndsAt,
			&s.Depot,
			&s.Note,
			&s.CreatedBy,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan shift")
		}
		shifts = append(shifts, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate shifts")
	}
	return shifts, nil
}

// Delete removes a shift.
func (r *ShiftRepository) Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error {
	q, err := scope.Delete("shifts").Where("id = ?", id).Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	res, err := querier.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete shift")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return domain.ErrShiftNotFound
	}
	return nil
}
