package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/metrics"
	"github.com/capitaldesk/desk/internal/shift/domain"
)

type shiftUseCaseWithMetrics struct {
	next    ShiftUseCase
	metrics metrics.BusinessMetrics
}

// NewShiftUseCaseWithMetrics wraps a ShiftUseCase with metrics recording.
func NewShiftUseCaseWithMetrics(useCase ShiftUseCase, m metrics.BusinessMetrics) ShiftUseCase {
	return &shiftUseCaseWithMetrics{next: useCase, metrics: m}
}

func (s *shiftUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	s.metrics.RecordOperation(ctx, "shifts", operation, status)
	s.metrics.RecordDuration(ctx, "shifts", operation, time.Since(start), status)
}

func (s *shiftUseCaseWithMetrics) Create(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateShiftInput,
) (*domain.Shift, error) {
	start := time.Now()
	out, err := s.next.Create(ctx, p, input)
	s.record(ctx, "shift_create", start, err)
	return out, err
}

func (s *shiftUseCaseWithMetrics) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Shift, error) {
	start := time.Now()
	out, err := s.next.List(ctx, p, filter)
	s.record(ctx, "shift_list", start, err)
	return out, err
}

func (s *shiftUseCaseWithMetrics) Delete(ctx context.Context, p *authDomain.Principal, id uuid.UUID) error {
	start := time.Now()
	err := s.next.Delete(ctx, p, id)
	s.record(ctx, "shift_delete", start, err)
	return err
}
