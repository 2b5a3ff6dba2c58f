// Package usecase implements work order management.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	casesDomain "github.com/capitaldesk/desk/internal/cases/domain"
	"github.com/capitaldesk/desk/internal/database"
	fleetDomain "github.com/capitaldesk/desk/internal/fleet/domain"
	outboxDomain "github.com/capitaldesk/desk/internal/outbox/domain"
	"github.com/capitaldesk/desk/internal/workorder/domain"
)

// WorkOrderRepository defines persistence operations for work orders.
type WorkOrderRepository interface {
	Create(ctx context.Context, scope database.Scope, wo *domain.WorkOrder) error
	Update(ctx context.Context, scope database.Scope, wo *domain.WorkOrder) error
	Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.WorkOrder, error)
	GetForUpdate(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.WorkOrder, error)
	HasActiveForCase(ctx context.Context, scope database.Scope, caseID uuid.UUID) (bool, error)
	List(ctx context.Context, scope database.Scope, filter domain.ListFilter) ([]*domain.WorkOrder, error)
}

// CaseLookup locks the case a work order is opened for.
type CaseLookup interface {
	GetForUpdate(ctx context.Context, scope database.Scope, id uuid.UUID) (*casesDomain.Case, error)
}

// BusLookup resolves the bus a work order is carried out on.
type BusLookup interface {
	Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*fleetDomain.Bus, error)
}

// UserLookup resolves technicians.
type UserLookup interface {
	Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*authDomain.User, error)
}

// OutboxRepository enqueues domain events in the caller's transaction.
type OutboxRepository interface {
	Create(ctx context.Context, scope database.Scope, event *outboxDomain.OutboxEvent) error
}

// WorkOrderUseCase defines work order operations. Technicians only see and move work
// orders assigned to them; ADMIN sees every work order of the tenant.
type WorkOrderUseCase interface {
	Create(ctx context.Context, p *authDomain.Principal, input *domain.CreateWorkOrderInput) (*domain.WorkOrder, error)
	Get(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.WorkOrder, error)
	List(ctx context.Context, p *authDomain.Principal, filter domain.ListFilter) ([]*domain.WorkOrder, error)

	// Assign hands the work order to a technician and enqueues a work_order.assigned
	// event. ADMIN only.
	Assign(ctx context.Context, p *authDomain.Principal, id, technicianID uuid.UUID) (*domain.WorkOrder, error)

	ChangeStatus(
		ctx context.Context,
		p *authDomain.Principal,
		id uuid.UUID,
		status domain.Status,
	) (*domain.WorkOrder, error)
}
