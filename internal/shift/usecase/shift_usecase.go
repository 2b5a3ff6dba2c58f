package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/shift/domain"
)

type shiftUseCase struct {
	txManager   database.TxManager
	repo        ShiftRepository
	technicians TechnicianLocker
	now         func() time.Time
}

// NewShiftUseCase creates a new ShiftUseCase.
func NewShiftUseCase(
	txManager database.TxManager,
	repo ShiftRepository,
	technicians TechnicianLocker,
) ShiftUseCase {
	return &shiftUseCase{
		txManager:   txManager,
		repo:        repo,
		technicians: technicians,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func plannerScope(p *authDomain.Principal) (database.Scope, error) {
	if !p.Can(authDomain.CanAccessPlanner) {
		return database.Scope{}, apperrors.Wrap(apperrors.ErrCapabilityDenied, "the planner requires PLANNER")
	}
	return database.NewScope(p.TenantID)
}

func (uc *shiftUseCase) Create(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateShiftInput,
) (*domain.Shift, error) {
	scope, err := plannerScope(p)
	if err != nil {
		return nil, err
	}

	s := &domain.Shift{
		ID:           uuid.Must(uuid.NewV7()),
		TenantID:     p.TenantID,
		TechnicianID: input.TechnicianID,
		StartsAt:     input.StartsAt.UTC(),
		EndsAt:       input.EndsAt.UTC(),
		Depot:        strings.TrimSpace(input.Depot),
		Note:         strings.TrimSpace(input.Note),
		CreatedBy:    p.UserID,
	}
	if !s.EndsAt.After(s.StartsAt) {
		return nil, domain.ErrInvalidRange
	}
	if s.EndsAt.Sub(s.StartsAt) > domain.MaxShiftLength {
		return nil, domain.ErrShiftTooLong
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		tech, err := uc.technicians.GetForUpdate(ctx, scope, s.TechnicianID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return domain.ErrInvalidTechnician
			}
			return err
		}
		if !tech.IsActive || tech.Role != authDomain.RoleTechnician {
			return domain.ErrInvalidTechnician
		}

		overlap, err := uc.repo.HasOverlap(ctx, scope, s.TechnicianID, s.StartsAt, s.EndsAt)
		if err != nil {
			return err
		}
		if overlap {
			return domain.ErrShiftOverlap
		}

		now := uc.now()
		s.CreatedAt = now
		s.UpdatedAt = now
		return uc.repo.Create(ctx, scope, s)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *shiftUseCase) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Shift, error) {
	scope, err := plannerScope(p)
	if err != nil {
		return nil, err
	}
	if !filter.To.After(filter.From) {
		return nil, domain.ErrInvalidRange
	}
	return uc.repo.List(ctx, scope, filter)
}

func (uc *shiftUseCase) Delete(ctx context.Context, p *authDomain.Principal, id uuid.UUID) error {
	scope, err := plannerScope(p)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, scope, id)
}
