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
	outboxDomain "github.com/capitaldesk/desk/internal/outbox/domain"
	"github.com/capitaldesk/desk/internal/sts/domain"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

type stsUseCase struct {
	txManager  database.TxManager
	tickets    TicketRepository
	comments   CommentRepository
	users      UserLookup
	outboxRepo OutboxRepository
	now        func() time.Time
}

// NewStsUseCase creates a new StsUseCase.
func NewStsUseCase(
	txManager database.TxManager,
	tickets TicketRepository,
	comments CommentRepository,
	users UserLookup,
	outboxRepo OutboxRepository,
) StsUseCase {
	return &stsUseCase{
		txManager:  txManager,
		tickets:    tickets,
		comments:   comments,
		users:      users,
		outboxRepo: outboxRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// scopeFor checks the predicate and returns the caller's tenant scope.
func scopeFor(p *authDomain.Principal, pred authDomain.Predicate, denied error) (database.Scope, error) {
	if !p.Can(pred) {
		return database.Scope{}, denied
	}
	return database.NewScope(p.TenantID)
}

func readScope(p *authDomain.Principal) (database.Scope, error) {
	return scopeFor(p, authDomain.CanStsRead, domain.ErrReadDenied)
}

func writeScope(p *authDomain.Principal) (database.Scope, error) {
	return scopeFor(p, authDomain.CanStsWrite, domain.ErrWriteDenied)
}

func adminScope(p *authDomain.Principal) (database.Scope, error) {
	return scopeFor(p, authDomain.CanStsAdmin, domain.ErrAdminDenied)
}

func validateTicket(t *domain.Ticket) error {
	err := validation.Errors{
		"subject":  validation.Validate(t.Subject, validation.Required, validation.Length(1, 200)),
		"body":     validation.Validate(t.Body, validation.Length(0, 8000)),
		"category": validation.Validate(t.Category, validation.Length(0, 64)),
	}.Filter()
	if err != nil {
		return customValidation.WrapValidationError(err)
	}
	if !t.Priority.Valid() {
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown priority %q", t.Priority)
	}
	return nil
}

func (uc *stsUseCase) Summary(ctx context.Context, p *authDomain.Principal) (*domain.Summary, error) {
	scope, err := scopeFor(p, authDomain.CanAccessSts, domain.ErrSectionDenied)
	if err != nil {
		return nil, err
	}
	return uc.tickets.CountByStatus(ctx, scope)
}

func (uc *stsUseCase) CreateTicket(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateTicketInput,
) (*domain.Ticket, error) {
	scope, err := writeScope(p)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	now := uc.now()
	t := &domain.Ticket{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  p.TenantID,
		Subject:   strings.TrimSpace(input.Subject),
		Body:      strings.TrimSpace(input.Body),
		Category:  strings.ToLower(strings.TrimSpace(input.Category)),
		Priority:  priority,
		Status:    domain.StatusNew,
		CreatedBy: p.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validateTicket(t); err != nil {
		return nil, err
	}

	if err := uc.tickets.Create(ctx, scope, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (uc *stsUseCase) GetTicket(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Ticket, error) {
	scope, err := readScope(p)
	if err != nil {
		return nil, err
	}
	return uc.tickets.Get(ctx, scope, id)
}

func (uc *stsUseCase) ListTickets(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Ticket, error) {
	scope, err := readScope(p)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown ticket status %q", filter.Status)
	}
	filter.Category = strings.ToLower(filter.Category)
	return uc.tickets.List(ctx, scope, filter)
}

// mutate locks an open ticket, applies fn and writes the result.
func (uc *stsUseCase) mutate(
	ctx context.Context,
	scope database.Scope,
	id uuid.UUID,
	fn func(ctx context.Context, t *domain.Ticket) error,
) (*domain.Ticket, error) {
	var t *domain.Ticket
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		t, err = uc.tickets.GetForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if t.IsClosed() {
			return domain.ErrTicketClosed
		}
		if err := fn(ctx, t); err != nil {
			return err
		}
		t.UpdatedAt = uc.now()
		return uc.tickets.Update(ctx, scope, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (uc *stsUseCase) UpdateTicket(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	input *domain.UpdateTicketInput,
) (*domain.Ticket, error) {
	scope, err := writeScope(p)
	if err != nil {
		return nil, err
	}

	return uc.mutate(ctx, scope, id, func(_ context.Context, t *domain.Ticket) error {
		if input.Subject != nil {
			t.Subject = strings.TrimSpace(*input.Subject)
		}
		if input.Body != nil {
			t.Body = strings.TrimSpace(*input.Body)
		}
		if input.Category != nil {
			t.Category = strings.ToLower(strings.TrimSpace(*input.Category))
		}
		if input.Priority != nil {
			t.Priority = *input.Priority
		}
		return validateTicket(t)
	})
}

func (uc *stsUseCase) AssignTicket(
	ctx context.Context,
	p *authDomain.Principal,
	id, assigneeID uuid.UUID,
) (*domain.Ticket, error) {
	scope, err := writeScope(p)
	if err != nil {
		return nil, err
	}

	return uc.mutate(ctx, scope, id, func(ctx context.Context, t *domain.Ticket) error {
		assignee, err := uc.users.Get(ctx, scope, assigneeID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return domain.ErrInvalidAssignee
			}
			return err
		}
		if !assignee.IsActive || !authDomain.CanStsWrite(assignee.Role, assignee.Capabilities) {
			return domain.ErrInvalidAssignee
		}

		t.AssigneeID = &assigneeID
		if t.Status == domain.StatusNew {
			t.Status = domain.StatusOpen
		}

		if assigneeID == p.UserID {
			return nil
		}
		event, err := outboxDomain.NewEvent(p.TenantID, outboxDomain.EventStsTicketAssigned, outboxDomain.AssignmentPayload{
			ResourceID: t.ID,
			AssigneeID: assigneeID,
			AssignedBy: p.UserID,
			Title:      t.Subject,
		})
		if err != nil {
			return err
		}
		return uc.outboxRepo.Create(ctx, scope, event)
	})
}

func (uc *stsUseCase) ChangeStatus(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	status domain.Status,
) (*domain.Ticket, error) {
	scope, err := writeScope(p)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown ticket status %q", status)
	}

	return uc.mutate(ctx, scope, id, func(_ context.Context, t *domain.Ticket) error {
		if !t.Status.CanTransitionTo(status) {
			return apperrors.Wrapf(domain.ErrInvalidTransition, "%s to %s", t.Status, status)
		}
		t.Status = status
		return nil
	})
}

func (uc *stsUseCase) CloseTicket(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Ticket, error) {
	scope, err := adminScope(p)
	if err != nil {
		return nil, err
	}

	return uc.mutate(ctx, scope, id, func(_ context.Context, t *domain.Ticket) error {
		closedAt := uc.now()
		t.Status = domain.StatusClosed
		t.ClosedAt = &closedAt
		return nil
	})
}

func (uc *stsUseCase) DeleteTicket(ctx context.Context, p *authDomain.Principal, id uuid.UUID) error {
	scope, err := adminScope(p)
	if err != nil {
		return err
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.tickets.GetForUpdate(ctx, scope, id); err != nil {
			return err
		}
		if err := uc.comments.DeleteByTicket(ctx, scope, id); err != nil {
			return err
		}
		return uc.tickets.Delete(ctx, scope, id)
	})
}

func (uc *stsUseCase) AddComment(
	ctx context.Context,
	p *authDomain.Principal,
	ticketID uuid.UUID,
	input *domain.CreateCommentInput,
) (*domain.Comment, error) {
	scope, err := writeScope(p)
	if err != nil {
		return nil, err
	}

	c := &domain.Comment{
		ID:       uuid.Must(uuid.NewV7()),
		TenantID: p.TenantID,
		TicketID: ticketID,
		AuthorID: p.UserID,
		Body:     strings.TrimSpace(input.Body),
		Internal: input.Internal,
	}
	if err := validation.Validate(c.Body, validation.Required, validation.Length(1, 8000)); err != nil {
		return nil, customValidation.WrapValidationError(validation.Errors{"body": err})
	}

	// A public reply on a pending ticket hands it back to the desk.
	_, err = uc.mutate(ctx, scope, ticketID, func(ctx context.Context, t *domain.Ticket) error {
		if !c.Internal && t.Status == domain.StatusPending {
			t.Status = domain.StatusOpen
		}
		c.CreatedAt = uc.now()
		return uc.comments.Create(ctx, scope, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *stsUseCase) ListComments(
	ctx context.Context,
	p *authDomain.Principal,
	ticketID uuid.UUID,
) ([]*domain.Comment, error) {
	scope, err := readScope(p)
	if err != nil {
		return nil, err
	}
	if _, err := uc.tickets.Get(ctx, scope, ticketID); err != nil {
		return nil, err
	}
	return uc.comments.ListByTicket(ctx, scope, ticketID, p.Can(authDomain.CanStsWrite))
}
