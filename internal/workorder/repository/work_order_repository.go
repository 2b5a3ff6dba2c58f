// Package repository implements persistence for work orders.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/workorder/domain"
)

var workOrderColumns = []string{
	"id", "tenant_id", "case_id", "bus_id", "title", "description", "status",
	"technician_id", "created_by", "created_at", "updated_at",
}

// WorkOrderRepository persists work orders.
type WorkOrderRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewWorkOrderRepository creates a new WorkOrderRepository.
func NewWorkOrderRepository(db *sql.DB, dialect database.Dialect) *WorkOrderRepository {
	return &WorkOrderRepository{db: db, dialect: dialect}
}

// Create inserts a new work order.
func (r *WorkOrderRepository) Create(ctx context.Context, scope database.Scope, wo *domain.WorkOrder) error {
	q, err := scope.Insert("work_orders").
		Set("id", wo.ID).
		Set("case_id", database.NullUUID(wo.CaseID)).
		Set("bus_id", wo.BusID).
		Set("title", wo.Title).
		Set("description", wo.Description).
		Set("status", string(wo.Status)).
		Set("technician_id", database.NullUUID(wo.TechnicianID)).
		Set("created_by", wo.CreatedBy).
		Set("created_at", wo.CreatedAt).
		Set("updated_at", wo.UpdatedAt).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		return apperrors.Wrap(err, "failed to create work order")
	}
	return nil
}

// Update writes the status and technician of the work order.
func (r *WorkOrderRepository) Update(ctx context.Context, scope database.Scope, wo *domain.WorkOrder) error {
	q, err := scope.Update("work_orders").
		Set("status", string(wo.Status)).
		Set("technician_id", database.NullUUID(wo.TechnicianID)).
		Set("updated_at", wo.UpdatedAt).
		Where("id = ?", wo.ID).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	res, err := querier.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to update work order")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return domain.ErrWorkOrderNotFound
	}
	return nil
}

// Get retrieves a work order by ID.
func (r *WorkOrderRepository) Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.WorkOrder, error) {
	return r.getOne(ctx, scope.Select("work_orders", workOrderColumns...).Where("id = ?", id))
}

// GetForUpdate retrieves a work order by ID and locks the row for the current transaction.
func (r *WorkOrderRepository) GetForUpdate(
	ctx context.Context,
	scope database.Scope,
	id uuid.UUID,
) (*domain.WorkOrder, error) {
	return r.getOne(ctx, scope.Select("work_orders", workOrderColumns...).Where("id = ?", id).ForUpdate())
}

// HasActiveForCase reports whether the case has an open or in-progress work order.
func (r *WorkOrderRepository) HasActiveForCase(
	ctx context.Context,
	scope database.Scope,
	caseID uuid.UUID,
) (bool, error) {
	q, err := scope.Select("work_orders", "id").
		Where("case_id = ?", caseID).
		Where("status IN (?, ?)", string(domain.StatusOpen), string(domain.StatusInProgress)).
		Limit(1).
		Build(r.dialect)
	if err != nil {
		return false, err
	}

	var id uuid.UUID
	querier := database.GetTx(ctx, r.db)
	err = querier.QueryRowContext(ctx, q.SQL, q.Args...).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to check active work orders")
	}
	return true, nil
}

// List returns work orders, newest first.
func (r *WorkOrderRepository) List(
	ctx context.Context,
	scope database.Scope,
	filter domain.ListFilter,
) ([]*domain.WorkOrder, error) {
	b := scope.Select("work_orders", workOrderColumns...)
	if filter.Status != "" {
		b = b.Where("status = ?", string(filter.Status))
	}
	if filter.CaseID != nil {
		b = b.Where("case_id = ?", *filter.CaseID)
	}
	if filter.TechnicianID != nil {
		b = b.Where("technician_id = ?", *filter.TechnicianID)
	}
	q, err := b.OrderBy("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list work orders")
	}
	defer func() {
		_ = rows.Close()
	}()

	workOrders := make([]*domain.WorkOrder, 0)
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan work order")
		}
		workOrders = append(workOrders, wo)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate work orders")
	}
	return workOrders, nil
}

func (r *WorkOrderRepository) getOne(ctx context.Context, b *database.SelectBuilder) (*domain.WorkOrder, error) {
	q, err := b.Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	wo, err := scanWorkOrder(querier.QueryRowContext(ctx, q.SQL, q.Args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWorkOrderNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get work order")
	}
	return wo, nil
}

func scanWorkOrder(row database.RowScanner) (*domain.WorkOrder, error) {
	var (
		wo           domain.WorkOrder
		caseID       uuid.NullUUID
		technicianID uuid.NullUUID
		status       string
	)
	err := row.Scan(
		&wo.ID,
		&wo.TenantID,
		&caseID,
		&wo.BusID,
		&wo.Title,
		&wo.Description,
		&status,
		&technicianID,
		&wo.CreatedBy,
		&wo.CreatedAt,
		&wo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	wo.CaseID = database.UUIDPtr(caseID)
	wo.TechnicianID = database.UUIDPtr(technicianID)
	wo.Status = domain.Status(status)
	return &wo, nil
}
