// Package usecase implements the STS help-desk workflow.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/database"
	outboxDomain "github.com/capitaldesk/desk/internal/outbox/domain"
	"github.com/capitaldesk/desk/internal/sts/domain"
)

// TicketRepository defines persistence operations for tickets.
type TicketRepository interface {
	Create(ctx context.Context, scope database.Scope, t *domain.Ticket) error
	Update(ctx context.Context, scope database.Scope, t *domain.Ticket) error
	Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error
	Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.Ticket, error)
	GetForUpdate(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.Ticket, error)
	List(ctx context.Context, scope database.Scope, filter domain.ListFilter) ([]*domain.Ticket, error)
	CountByStatus(ctx context.Context, scope database.Scope) (*domain.Summary, error)
}

// CommentRepository defines persistence operations for ticket comments.
type CommentRepository interface {
	Create(ctx context.Context, scope database.Scope, c *domain.Comment) error
	ListByTicket(
		ctx context.Context,
		scope database.Scope,
		ticketID uuid.UUID,
		includeInternal bool,
	) ([]*domain.Comment, error)
	DeleteByTicket(ctx context.Context, scope database.Scope, ticketID uuid.UUID) error
}

// UserLookup resolves assignees.
type UserLookup interface {
	Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*authDomain.User, error)
}

// OutboxRepository enqueues domain events in the caller's transaction.
type OutboxRepository interface {
	Create(ctx context.Context, scope database.Scope, event *outboxDomain.OutboxEvent) error
}

// StsUseCase defines STS operations. Summary needs section access only; reads need
// CanStsRead, changes need CanStsWrite, and closing or deleting needs CanStsAdmin.
type StsUseCase interface {
	Summary(ctx context.Context, p *authDomain.Principal) (*domain.Summary, error)

	CreateTicket(ctx context.Context, p *authDomain.Principal, input *domain.CreateTicketInput) (*domain.Ticket, error)
	GetTicket(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Ticket, error)
	ListTickets(ctx context.Context, p *authDomain.Principal, filter domain.ListFilter) ([]*domain.Ticket, error)
	UpdateTicket(
		ctx context.Context,
		p *authDomain.Principal,
		id uuid.UUID,
		input *domain.UpdateTicketInput,
	) (*domain.Ticket, error)

	// AssignTicket hands the ticket to a user with STS write access and enqueues a
	// sts_ticket.assigned event.
	AssignTicket(ctx context.Context, p *authDomain.Principal, id, assigneeID uuid.UUID) (*domain.Ticket, error)

	// ChangeStatus moves the ticket along its lifecycle. Closing goes through CloseTicket.
	ChangeStatus(ctx context.Context, p *authDomain.Principal, id uuid.UUID, status domain.Status) (*domain.Ticket, error)

	CloseTicket(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Ticket, error)
	DeleteTicket(ctx context.Context, p *authDomain.Principal, id uuid.UUID) error

	AddComment(
		ctx context.Context,
		p *authDomain.Principal,
		ticketID uuid.UUID,
		input *domain.CreateCommentInput,
	) (*domain.Comment, error)

	// ListComments returns the ticket's comments. Internal comments are only listed for
	// callers with write access.
	ListComments(ctx context.Context, p *authDomain.Principal, ticketID uuid.UUID) ([]*domain.Comment, error)
}
