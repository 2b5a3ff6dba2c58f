// Package usecase implements fleet management.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/database"
	"github.com/capitaldesk/desk/internal/fleet/domain"
)

// BusRepository defines persistence operations for buses.
type BusRepository interface {
	Create(ctx context.Context, scope database.Scope, bus *domain.Bus) error
	Update(ctx context.Context, scope database.Scope, bus *domain.Bus) error
	Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.Bus, error)
	GetForUpdate(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.Bus, error)
	List(ctx context.Context, scope database.Scope, filter domain.ListFilter) ([]*domain.Bus, error)
}

// BusUseCase defines fleet operations. Reads are open to every role the gate lets
// through; writes require ADMIN or BACKOFFICE.
type BusUseCase interface {
	Create(ctx context.Context, p *authDomain.Principal, input *domain.CreateBusInput) (*domain.Bus, error)
	Get(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Bus, error)
	List(ctx context.Context, p *authDomain.Principal, filter domain.ListFilter) ([]*domain.Bus, error)
	Update(ctx context.Context, p *authDomain.Principal, id uuid.UUID, input *domain.UpdateBusInput) (*domain.Bus, error)

	// Retire takes a bus out of the fleet. Retiring a retired bus is a no-op.
	Retire(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Bus, error)
}
