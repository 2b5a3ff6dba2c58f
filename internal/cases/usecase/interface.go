// Package usecase implements the service case workflow.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/cases/domain"
	"github.com/capitaldesk/desk/internal/database"
	fleetDomain "github.com/capitaldesk/desk/internal/fleet/domain"
	outboxDomain "github.com/capitaldesk/desk/internal/outbox/domain"
)

// CaseRepository defines persistence operations for cases.
type CaseRepository interface {
	Create(ctx context.Context, scope database.Scope, c *domain.Case) error
	Update(ctx context.Context, scope database.Scope, c *domain.Case) error
	Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.Case, error)
	GetForUpdate(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.Case, error)
	List(ctx context.Context, scope database.Scope, filter domain.ListFilter) ([]*domain.Case, error)
}

// BusLookup resolves the bus a case refers to.
type BusLookup interface {
	Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*fleetDomain.Bus, error)
}

// UserLookup resolves assignees.
type UserLookup interface {
	Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*authDomain.User, error)
}

// OutboxRepository enqueues domain events in the caller's transaction.
type OutboxRepository interface {
	Create(ctx context.Context, scope database.Scope, event *outboxDomain.OutboxEvent) error
}

// CaseUseCase defines service case operations.
type CaseUseCase interface {
	Create(ctx context.Context, p *authDomain.Principal, input *domain.CreateCaseInput) (*domain.Case, error)
	Get(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Case, error)
	List(ctx context.Context, p *authDomain.Principal, filter domain.ListFilter) ([]*domain.Case, error)
	Update(ctx context.Context, p *authDomain.Principal, id uuid.UUID, input *domain.UpdateCaseInput) (*domain.Case, error)

	// Assign hands the case to a user of the tenant and enqueues a case.assigned event.
	// Requires CanAssignCases.
	Assign(ctx context.Context, p *authDomain.Principal, id, assigneeID uuid.UUID) (*domain.Case, error)

	// ChangeStatus moves the case along its lifecycle.
	ChangeStatus(ctx context.Context, p *authDomain.Principal, id uuid.UUID, status domain.Status) (*domain.Case, error)
}
