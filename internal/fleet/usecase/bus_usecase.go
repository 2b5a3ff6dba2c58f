package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/fleet/domain"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

type busUseCase struct {
	txManager database.TxManager
	repo      BusRepository
	now       func() time.Time
}

// NewBusUseCase creates a new BusUseCase.
func NewBusUseCase(txManager database.TxManager, repo BusRepository) BusUseCase {
	return &busUseCase{
		txManager: txManager,
		repo:      repo,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// manageScope returns the tenant scope of a principal allowed to change the fleet.
func manageScope(p *authDomain.Principal) (database.Scope, error) {
	if !p.HasRole(authDomain.RoleAdmin, authDomain.RoleBackoffice) {
		return database.Scope{}, apperrors.Wrap(apperrors.ErrRoleDenied, "fleet changes require ADMIN or BACKOFFICE")
	}
	return database.NewScope(p.TenantID)
}

func (uc *busUseCase) Create(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateBusInput,
) (*domain.Bus, error) {
	scope, err := manageScope(p)
	if err != nil {
		return nil, err
	}

	bus := &domain.Bus{
		ID:          uuid.Must(uuid.NewV7()),
		TenantID:    p.TenantID,
		FleetNumber: strings.TrimSpace(input.FleetNumber),
		Plate:       strings.ToUpper(strings.TrimSpace(input.Plate)),
		Model:       strings.TrimSpace(input.Model),
		Depot:       strings.TrimSpace(input.Depot),
		Status:      domain.BusStatusActive,
	}

	err = validation.Errors{
		"fleet_number": validation.Validate(bus.FleetNumber, validation.Required, validation.Length(1, 32)),
		"plate":        validation.Validate(bus.Plate, validation.Required, validation.Length(1, 32)),
		"model":        validation.Validate(bus.Model, validation.Length(0, 128)),
		"depot":        validation.Validate(bus.Depot, validation.Length(0, 128)),
	}.Filter()
	if err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	now := uc.now()
	bus.CreatedAt = now
	bus.UpdatedAt = now
	if err := uc.repo.Create(ctx, scope, bus); err != nil {
		return nil, err
	}
	return bus, nil
}

func (uc *busUseCase) Get(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Bus, error) {
	scope, err := database.NewScope(p.TenantID)
	if err != nil {
		return nil, err
	}
	return uc.repo.Get(ctx, scope, id)
}

func (uc *busUseCase) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Bus, error) {
	scope, err := database.NewScope(p.TenantID)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown bus status %q", filter.Status)
	}
	return uc.repo.List(ctx, scope, filter)
}

func (uc *busUseCase) Update(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	input *domain.UpdateBusInput,
) (*domain.Bus, error) {
	scope, err := manageScope(p)
	if err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown bus status %q", *input.Status)
	}
	if input.Plate != nil && strings.TrimSpace(*input.Plate) == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "plate: cannot be blank")
	}

	var bus *domain.Bus
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		bus, err = uc.repo.GetForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if bus.IsRetired() {
			return domain.ErrBusRetired
		}

		if input.Plate != nil {
			bus.Plate = strings.ToUpper(strings.TrimSpace(*input.Plate))
		}
		if input.Model != nil {
			bus.Model = strings.TrimSpace(*input.Model)
		}
		if input.Depot != nil {
			bus.Depot = strings.TrimSpace(*input.Depot)
		}
		if input.Status != nil {
			bus.Status = *input.Status
		}
		bus.UpdatedAt = uc.now()
		return uc.repo.Update(ctx, scope, bus)
	})
	if err != nil {
		return nil, err
	}
	return bus, nil
}

func (uc *busUseCase) Retire(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Bus, error) {
	scope, err := manageScope(p)
	if err != nil {
		return nil, err
	}

	var bus *domain.Bus
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		bus, err = uc.repo.GetForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if bus.IsRetired() {
			return nil
		}
		bus.Status = domain.BusStatusRetired
		bus.UpdatedAt = uc.now()
		return uc.repo.Update(ctx, scope, bus)
	})
	if err != nil {
		return nil, err
	}
	return bus, nil
}
