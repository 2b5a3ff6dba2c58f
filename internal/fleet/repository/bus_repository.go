// Package repository provides persistence for buses.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/fleet/domain"
)

var busColumns = []string{
	"id", "tenant_id", "fleet_number", "plate", "model", "depot", "status", "created_at", "updated_at",
}

// BusRepository persists buses.
type BusRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewBusRepository creates a new BusRepository.
func NewBusRepository(db *sql.DB, dialect database.Dialect) *BusRepository {
	return &BusRepository{db: db, dialect: dialect}
}

// Create inserts a bus.
func (r *BusRepository) Create(ctx context.Context, scope database.Scope, bus *domain.Bus) error {
	q, err := scope.Insert("buses").
		Set("id", bus.ID).
		Set("fleet_number", bus.FleetNumber).
		Set("plate", bus.Plate).
		Set("model", bus.Model).
		Set("depot", bus.Depot).
		Set("status", string(bus.Status)).
		Set("created_at", bus.CreatedAt).
		Set("updated_at", bus.UpdatedAt).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrFleetNumberExists
		}
		return apperrors.Wrap(err, "failed to create bus")
	}
	return nil
}

// Update writes the mutable columns of a bus.
func (r *BusRepository) Update(ctx context.Context, scope database.Scope, bus *domain.Bus) error {
	q, err := scope.Update("buses").
		Set("plate", bus.Plate).
		Set("model", bus.Model).
		Set("depot", bus.Depot).
		Set("status", string(bus.Status)).
		Set("updated_at", bus.UpdatedAt).
		Where("id = ?", bus.ID).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	res, err := querier.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to update bus")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return domain.ErrBusNotFound
	}
	return nil
}

// Get retrieves a bus by ID.
func (r *BusRepository) Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.Bus, error) {
	return r.getOne(ctx, scope.Select("buses", busColumns...).Where("id = ?", id))
}

// GetForUpdate retrieves a bus by ID and locks the row for the current transaction.
func (r *BusRepository) GetForUpdate(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.Bus, error) {
	return r.getOne(ctx, scope.Select("buses", busColumns...).Where("id = ?", id).ForUpdate())
}

// List returns buses ordered by fleet number.
func (r *BusRepository) List(ctx context.Context, scope database.Scope, filter domain.ListFilter) ([]*domain.Bus, error) {
	b := scope.Select("buses", busColumns...)
	if filter.Status != "" {
		b = b.Where("status = ?", string(filter.Status))
	}
	if filter.Depot != "" {
		b = b.Where("depot = ?", filter.Depot)
	}
	q, err := b.OrderBy("fleet_number ASC").Limit(filter.Limit).Offset(filter.Offset).Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list buses")
	}
	defer func() {
		_ = rows.Close()
	}()

	buses := make([]*domain.Bus, 0)
	for rows.Next() {
		bus, err := scanBus(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan bus")
		}
		buses = append(buses, bus)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate buses")
	}
	return buses, nil
}

func (r *BusRepository) getOne(ctx context.Context, b *database.SelectBuilder) (*domain.Bus, error) {
	q, err := b.Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	bus, err := scanBus(querier.QueryRowContext(ctx, q.SQL, q.Args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBusNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get bus")
	}
	return bus, nil
}

func scanBus(row database.RowScanner) (*domain.Bus, error) {
	var (
		bus    domain.Bus
		status string
	)
	err := row.Scan(
		&bus.ID,
		&bus.TenantID,
		&bus.FleetNumber,
		&bus.Plate,
		&bus.Model,
		&bus.Depot,
		&status,
		&bus.CreatedAt,
		&bus.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	bus.Status = domain.BusStatus(status)
	return &bus, nil
}
