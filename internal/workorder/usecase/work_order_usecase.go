package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	casesDomain "github.com/capitaldesk/desk/internal/cases/domain"
	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	fleetDomain "github.com/capitaldesk/desk/internal/fleet/domain"
	outboxDomain "github.com/capitaldesk/desk/internal/outbox/domain"
	customValidation "github.com/capitaldesk/desk/internal/validation"
	"github.com/capitaldesk/desk/internal/workorder/domain"
)

type workOrderUseCase struct {
	txManager  database.TxManager
	repo       WorkOrderRepository
	cases      CaseLookup
	buses      BusLookup
	users      UserLookup
	outboxRepo OutboxRepository
	now        func() time.Time
}

// NewWorkOrderUseCase creates a new WorkOrderUseCase.
func NewWorkOrderUseCase(
	txManager database.TxManager,
	repo WorkOrderRepository,
	cases CaseLookup,
	buses BusLookup,
	users UserLookup,
	outboxRepo OutboxRepository,
) WorkOrderUseCase {
	return &workOrderUseCase{
		txManager:  txManager,
		repo:       repo,
		cases:      cases,
		buses:      buses,
		users:      users,
		outboxRepo: outboxRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func workOrderScope(p *authDomain.Principal) (database.Scope, error) {
	if !p.HasRole(authDomain.RoleAdmin, authDomain.RoleTechnician) {
		return database.Scope{}, apperrors.Wrap(apperrors.ErrRoleDenied, "work orders require ADMIN or TECHNICIAN")
	}
	return database.NewScope(p.TenantID)
}

// visible reports whether p may see wo.
func visible(p *authDomain.Principal, wo *domain.WorkOrder) bool {
	return p.IsAdmin() || wo.AssignedTo(p.UserID)
}

func (uc *workOrderUseCase) Create(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateWorkOrderInput,
) (*domain.WorkOrder, error) {
	scope, err := workOrderScope(p)
	if err != nil {
		return nil, err
	}

	wo := &domain.WorkOrder{
		ID:           uuid.Must(uuid.NewV7()),
		TenantID:     p.TenantID,
		CaseID:       input.CaseID,
		BusID:        input.BusID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.StatusOpen,
		TechnicianID: input.TechnicianID,
		CreatedBy:    p.UserID,
	}
	err = validation.Errors{
		"title":       validation.Validate(wo.Title, validation.Required, validation.Length(1, 200)),
		"description": validation.Validate(wo.Description, validation.Length(0, 4000)),
	}.Filter()
	if err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	// Technicians open work for themselves.
	if !p.IsAdmin() {
		if wo.TechnicianID != nil && *wo.TechnicianID != p.UserID {
			return nil, apperrors.Wrap(apperrors.ErrRoleDenied, "only ADMIN assigns work orders to others")
		}
		self := p.UserID
		wo.TechnicianID = &self
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if wo.CaseID != nil {
			if err := uc.attachCase(ctx, scope, wo); err != nil {
				return err
			}
		}
		if err := uc.checkBus(ctx, scope, wo.BusID); err != nil {
			return err
		}
		if wo.TechnicianID != nil && *wo.TechnicianID != p.UserID {
			if err := uc.checkTechnician(ctx, scope, *wo.TechnicianID); err != nil {
				return err
			}
		}

		now := uc.now()
		wo.CreatedAt = now
		wo.UpdatedAt = now
		if err := uc.repo.Create(ctx, scope, wo); err != nil {
			return err
		}
		return uc.enqueueAssignment(ctx, scope, p, wo)
	})
	if err != nil {
		return nil, err
	}
	return wo, nil
}

// attachCase locks the referenced case and enforces one active work order per case.
func (uc *workOrderUseCase) attachCase(ctx context.Context, scope database.Scope, wo *domain.WorkOrder) error {
	c, err := uc.cases.GetForUpdate(ctx, scope, *wo.CaseID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return domain.ErrUnknownReference
		}
		return err
	}
	if c.Status == casesDomain.StatusClosed {
		return casesDomain.ErrCaseClosed
	}
	if wo.BusID == uuid.Nil {
		wo.BusID = c.BusID
	} else if wo.BusID != c.BusID {
		return domain.ErrBusMismatch
	}

	active, err := uc.repo.HasActiveForCase(ctx, scope, c.ID)
	if err != nil {
		return err
	}
	if active {
		return domain.ErrActiveWorkOrderExists
	}
	return nil
}

func (uc *workOrderUseCase) checkBus(ctx context.Context, scope database.Scope, busID uuid.UUID) error {
	if busID == uuid.Nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "bus_id: cannot be blank")
	}
	bus, err := uc.buses.Get(ctx, scope, busID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return domain.ErrUnknownReference
		}
		return err
	}
	if bus.IsRetired() {
		return fleetDomain.ErrBusRetired
	}
	return nil
}

func (uc *workOrderUseCase) checkTechnician(ctx context.Context, scope database.Scope, id uuid.UUID) error {
	user, err := uc.users.Get(ctx, scope, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return domain.ErrInvalidTechnician
		}
		return err
	}
	if !user.IsActive || user.Role != authDomain.RoleTechnician {
		return domain.ErrInvalidTechnician
	}
	return nil
}

// enqueueAssignment writes a work_order.assigned event unless the work order is
// unassigned or the caller assigned it to themselves.
func (uc *workOrderUseCase) enqueueAssignment(
	ctx context.Context,
	scope database.Scope,
	p *authDomain.Principal,
	wo *domain.WorkOrder,
) error {
	if wo.TechnicianID == nil || *wo.TechnicianID == p.UserID {
		return nil
	}
	event, err := outboxDomain.NewEvent(p.TenantID, outboxDomain.EventWorkOrderAssigned, outboxDomain.AssignmentPayload{
		ResourceID: wo.ID,
		AssigneeID: *wo.TechnicianID,
		AssignedBy: p.UserID,
		Title:      wo.Title,
	})
	if err != nil {
		return err
	}
	return uc.outboxRepo.Create(ctx, scope, event)
}

func (uc *workOrderUseCase) Get(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.WorkOrder, error) {
	scope, err := workOrderScope(p)
	if err != nil {
		return nil, err
	}
	wo, err := uc.repo.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !visible(p, wo) {
		return nil, domain.ErrWorkOrderNotFound
	}
	return wo, nil
}

func (uc *workOrderUseCase) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.WorkOrder, error) {
	scope, err := workOrderScope(p)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown work order status %q", filter.Status)
	}
	if !p.IsAdmin() {
		filter.TechnicianID = &p.UserID
	}
	return uc.repo.List(ctx, scope, filter)
}

func (uc *workOrderUseCase) Assign(
	ctx context.Context,
	p *authDomain.Principal,
	id, technicianID uuid.UUID,
) (*domain.WorkOrder, error) {
	scope, err := workOrderScope(p)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		return nil, apperrors.Wrap(apperrors.ErrRoleDenied, "assigning work orders requires ADMIN")
	}

	var wo *domain.WorkOrder
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.checkTechnician(ctx, scope, technicianID); err != nil {
			return err
		}

		var err error
		wo, err = uc.repo.GetForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if wo.Status.Terminal() {
			return apperrors.Wrapf(domain.ErrInvalidTransition, "work order is %s", wo.Status)
		}
		if wo.AssignedTo(technicianID) {
			return nil
		}

		wo.TechnicianID = &technicianID
		wo.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, scope, wo); err != nil {
			return err
		}
		return uc.enqueueAssignment(ctx, scope, p, wo)
	})
	if err != nil {
		return nil, err
	}
	return wo, nil
}

func (uc *workOrderUseCase) ChangeStatus(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	status domain.Status,
) (*domain.WorkOrder, error) {
	scope, err := workOrderScope(p)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown work order status %q", status)
	}

	var wo *domain.WorkOrder
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		wo, err = uc.repo.GetForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if !visible(p, wo) {
			return domain.ErrWorkOrderNotFound
		}
		if !wo.Status.CanTransitionTo(status) {
			return apperrors.Wrapf(domain.ErrInvalidTransition, "%s to %s", wo.Status, status)
		}
		wo.Status = status
		wo.UpdatedAt = uc.now()
		return uc.repo.Update(ctx, scope, wo)
	})
	if err != nil {
		return nil, err
	}
	return wo, nil
}
