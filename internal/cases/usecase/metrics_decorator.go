package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/cases/domain"
	"github.com/capitaldesk/desk/internal/metrics"
)

// caseUseCaseWithMetrics decorates CaseUseCase with metrics instrumentation.
type caseUseCaseWithMetrics struct {
	next    CaseUseCase
	metrics metrics.BusinessMetrics
}

// NewCaseUseCaseWithMetrics wraps a CaseUseCase with metrics recording.
func NewCaseUseCaseWithMetrics(useCase CaseUseCase, m metrics.BusinessMetrics) CaseUseCase {
	return &caseUseCaseWithMetrics{next: useCase, metrics: m}
}

func (c *caseUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	c.metrics.RecordOperation(ctx, "cases", operation, status)
	c.metrics.RecordDuration(ctx, "cases", operation, time.Since(start), status)
}

func (c *caseUseCaseWithMetrics) Create(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateCaseInput,
) (*domain.Case, error) {
	start := time.Now()
	out, err := c.next.Create(ctx, p, input)
	c.record(ctx, "case_create", start, err)
	return out, err
}

func (c *caseUseCaseWithMetrics) Get(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Case, error) {
	start := time.Now()
	out, err := c.next.Get(ctx, p, id)
	c.record(ctx, "case_get", start, err)
	return out, err
}

func (c *caseUseCaseWithMetrics) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Case, error) {
	start := time.Now()
	out, err := c.next.List(ctx, p, filter)
	c.record(ctx, "case_list", start, err)
	return out, err
}

func (c *caseUseCaseWithMetrics) Update(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	input *domain.UpdateCaseInput,
) (*domain.Case, error) {
	start := time.Now()
	out, err := c.next.Update(ctx, p, id, input)
	c.record(ctx, "case_update", start, err)
	return out, err
}

func (c *caseUseCaseWithMetrics) Assign(
	ctx context.Context,
	p *authDomain.Principal,
	id, assigneeID uuid.UUID,
) (*domain.Case, error) {
	start := time.Now()
	out, err := c.next.Assign(ctx, p, id, assigneeID)
	c.record(ctx, "case_assign", start, err)
	return out, err
}

func (c *caseUseCaseWithMetrics) ChangeStatus(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	status domain.Status,
) (*domain.Case, error) {
	start := time.Now()
	out, err := c.next.ChangeStatus(ctx, p, id, status)
	c.record(ctx, "case_change_status", start, err)
	return out, err
}
