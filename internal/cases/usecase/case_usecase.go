package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/cases/domain"
	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	fleetDomain "github.com/capitaldesk/desk/internal/fleet/domain"
	outboxDomain "github.com/capitaldesk/desk/internal/outbox/domain"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

type caseUseCase struct {
	txManager  database.TxManager
	repo       CaseRepository
	buses      BusLookup
	users      UserLookup
	outboxRepo OutboxRepository
	now        func() time.Time
}

// NewCaseUseCase creates a new CaseUseCase.
func NewCaseUseCase(
	txManager database.TxManager,
	repo CaseRepository,
	buses BusLookup,
	users UserLookup,
	outboxRepo OutboxRepository,
) CaseUseCase {
	return &caseUseCase{
		txManager:  txManager,
		repo:       repo,
		buses:      buses,
		users:      users,
		outboxRepo: outboxRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func caseScope(p *authDomain.Principal) (database.Scope, error) {
	if !p.HasRole(authDomain.RoleAdmin, authDomain.RoleBackoffice) {
		return database.Scope{}, apperrors.Wrap(apperrors.ErrRoleDenied, "cases require ADMIN or BACKOFFICE")
	}
	return database.NewScope(p.TenantID)
}

func validateText(title, description string) error {
	err := validation.Errors{
		"title":       validation.Validate(title, validation.Required, validation.Length(1, 200)),
		"description": validation.Validate(description, validation.Length(0, 4000)),
	}.Filter()
	if err != nil {
		return customValidation.WrapValidationError(err)
	}
	return nil
}

func (uc *caseUseCase) Create(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateCaseInput,
) (*domain.Case, error) {
	scope, err := caseScope(p)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	if !priority.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown priority %q", priority)
	}

	c := &domain.Case{
		ID:          uuid.Must(uuid.NewV7()),
		TenantID:    p.TenantID,
		BusID:       input.BusID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    priority,
		Status:      domain.StatusOpen,
		CreatedBy:   p.UserID,
	}
	if err := validateText(c.Title, c.Description); err != nil {
		return nil, err
	}

	bus, err := uc.buses.Get(ctx, scope, input.BusID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrUnknownBus
		}
		return nil, err
	}
	if bus.IsRetired() {
		return nil, fleetDomain.ErrBusRetired
	}

	now := uc.now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := uc.repo.Create(ctx, scope, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *caseUseCase) Get(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Case, error) {
	scope, err := caseScope(p)
	if err != nil {
		return nil, err
	}
	return uc.repo.Get(ctx, scope, id)
}

func (uc *caseUseCase) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Case, error) {
	scope, err := caseScope(p)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown case status %q", filter.Status)
	}
	return uc.repo.List(ctx, scope, filter)
}

func (uc *caseUseCase) Update(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	input *domain.UpdateCaseInput,
) (*domain.Case, error) {
	scope, err := caseScope(p)
	if err != nil {
		return nil, err
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown priority %q", *input.Priority)
	}

	var c *domain.Case
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = uc.repo.GetForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if c.IsClosed() {
			return domain.ErrCaseClosed
		}

		if input.Title != nil {
			c.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			c.Description = strings.TrimSpace(*input.Description)
		}
		if input.Priority != nil {
			c.Priority = *input.Priority
		}
		if err := validateText(c.Title, c.Description); err != nil {
			return err
		}
		c.UpdatedAt = uc.now()
		return uc.repo.Update(ctx, scope, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *caseUseCase) Assign(
	ctx context.Context,
	p *authDomain.Principal,
	id, assigneeID uuid.UUID,
) (*domain.Case, error) {
	scope, err := caseScope(p)
	if err != nil {
		return nil, err
	}
	if !p.Can(authDomain.CanAssignCases) {
		return nil, domain.ErrAssignDenied
	}

	var c *domain.Case
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		assignee, err := uc.users.Get(ctx, scope, assigneeID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return domain.ErrInvalidAssignee
			}
			return err
		}
		if !assignee.IsActive {
			return domain.ErrInvalidAssignee
		}

		c, err = uc.repo.GetForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if c.IsClosed() {
			return domain.ErrCaseClosed
		}

		c.AssigneeID = &assigneeID
		c.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, scope, c); err != nil {
			return err
		}

		if assigneeID == p.UserID {
			return nil
		}
		event, err := outboxDomain.NewEvent(p.TenantID, outboxDomain.EventCaseAssigned, outboxDomain.AssignmentPayload{
			ResourceID: c.ID,
			AssigneeID: assigneeID,
			AssignedBy: p.UserID,
			Title:      c.Title,
		})
		if err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, scope, event)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *caseUseCase) ChangeStatus(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	status domain.Status,
) (*domain.Case, error) {
	scope, err := caseScope(p)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown case status %q", status)
	}

	var c *domain.Case
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = uc.repo.GetForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if !c.Status.CanTransitionTo(status) {
			return apperrors.Wrapf(domain.ErrInvalidTransition, "%s to %s", c.Status, status)
		}
		c.Status = status
		c.UpdatedAt = uc.now()
		return uc.repo.Update(ctx, scope, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
