// Package usecase implements the technician shift planner.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/database"
	"github.com/capitaldesk/desk/internal/shift/domain"
)

// ShiftRepository defines persistence operations for shifts.
type ShiftRepository interface {
	Create(ctx context.Context, scope database.Scope, s *domain.Shift) error
	HasOverlap(ctx context.Context, scope database.Scope, technicianID uuid.UUID, from, to time.Time) (bool, error)
	List(ctx context.Context, scope database.Scope, filter domain.ListFilter) ([]*domain.Shift, error)
	Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error
}

// TechnicianLocker locks a technician's user row, serializing shift planning per
// technician.
type TechnicianLocker interface {
	GetForUpdate(ctx context.Context, scope database.Scope, id uuid.UUID) (*authDomain.User, error)
}

// ShiftUseCase defines planner operations. Every operation requires CanAccessPlanner.
type ShiftUseCase interface {
	Create(ctx context.Context, p *authDomain.Principal, input *domain.CreateShiftInput) (*domain.Shift, error)
	List(ctx context.Context, p *authDomain.Principal, filter domain.ListFilter) ([]*domain.Shift, error)
	Delete(ctx context.Context, p *authDomain.Principal, id uuid.UUID) error
}
