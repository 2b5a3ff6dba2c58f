package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/metrics"
	"github.com/capitaldesk/desk/internal/sts/domain"
)

// stsUseCaseWithMetrics decorates StsUseCase with metrics instrumentation.
type stsUseCaseWithMetrics struct {
	next    StsUseCase
	metrics metrics.BusinessMetrics
}

// NewStsUseCaseWithMetrics wraps a StsUseCase with metrics recording.
func NewStsUseCaseWithMetrics(useCase StsUseCase, m metrics.BusinessMetrics) StsUseCase {
	return &stsUseCaseWithMetrics{next: useCase, metrics: m}
}

func (s *stsUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	s.metrics.RecordOperation(ctx, "sts", operation, status)
	s.metrics.RecordDuration(ctx, "sts", operation, time.Since(start), status)
}

func (s *stsUseCaseWithMetrics) Summary(ctx context.Context, p *authDomain.Principal) (*domain.Summary, error) {
	start := time.Now()
	out, err := s.next.Summary(ctx, p)
	s.record(ctx, "sts_summary", start, err)
	return out, err
}

func (s *stsUseCaseWithMetrics) CreateTicket(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateTicketInput,
) (*domain.Ticket, error) {
	start := time.Now()
	out, err := s.next.CreateTicket(ctx, p, input)
	s.record(ctx, "ticket_create", start, err)
	return out, err
}

func (s *stsUseCaseWithMetrics) GetTicket(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
) (*domain.Ticket, error) {
	start := time.Now()
	out, err := s.next.GetTicket(ctx, p, id)
	s.record(ctx, "ticket_get", start, err)
	return out, err
}

func (s *stsUseCaseWithMetrics) ListTickets(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Ticket, error) {
	start := time.Now()
	out, err := s.next.ListTickets(ctx, p, filter)
	s.record(ctx, "ticket_list", start, err)
	return out, err
}

func (s *stsUseCaseWithMetrics) UpdateTicket(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	input *domain.UpdateTicketInput,
) (*domain.Ticket, error) {
	start := time.Now()
	out, err := s.next.UpdateTicket(ctx, p, id, input)
	s.record(ctx, "ticket_update", start, err)
	return out, err
}

func (s *stsUseCaseWithMetrics) AssignTicket(
	ctx context.Context,
	p *authDomain.Principal,
	id, assigneeID uuid.UUID,
) (*domain.Ticket, error) {
	start := time.Now()
	out, err := s.next.AssignTicket(ctx, p, id, assigneeID)
	s.record(ctx, "ticket_assign", start, err)
	return out, err
}

func (s *stsUseCaseWithMetrics) ChangeStatus(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	status domain.Status,
) (*domain.Ticket, error) {
	start := time.Now()
	out, err := s.next.ChangeStatus(ctx, p, id, status)
	s.record(ctx, "ticket_change_status", start, err)
	return out, err
}

func (s *stsUseCaseWithMetrics) CloseTicket(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
) (*domain.Ticket, error) {
	start := time.Now()
	out, err := s.next.CloseTicket(ctx, p, id)
	s.record(ctx, "ticket_close", start, err)
	return out, err
}

func (s *stsUseCaseWithMetrics) DeleteTicket(ctx context.Context, p *authDomain.Principal, id uuid.UUID) error {
	start := time.Now()
	err := s.next.DeleteTicket(ctx, p, id)
	s.record(ctx, "ticket_delete", start, err)
	return err
}

func (s *stsUseCaseWithMetrics) AddComment(
	ctx context.Context,
	p *authDomain.Principal,
	ticketID uuid.UUID,
	input *domain.CreateCommentInput,
) (*domain.Comment, error) {
	start := time.Now()
	out, err := s.next.AddComment(ctx, p, ticketID, input)
	s.record(ctx, "comment_create", start, err)
	return out, err
}

func (s *stsUseCaseWithMetrics) ListComments(
	ctx context.Context,
	p *authDomain.Principal,
	ticketID uuid.UUID,
) ([]*domain.Comment, error) {
	start := time.Now()
	out, err := s.next.ListComments(ctx, p, ticketID)
	s.record(ctx, "comment_list", start, err)
	return out, err
}
