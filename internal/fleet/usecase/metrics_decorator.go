package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/fleet/domain"
	"github.com/capitaldesk/desk/internal/metrics"
)

type busUseCaseWithMetrics struct {
	next    BusUseCase
	metrics metrics.BusinessMetrics
}

// NewBusUseCaseWithMetrics wraps a BusUseCase with metrics recording.
func NewBusUseCaseWithMetrics(useCase BusUseCase, m metrics.BusinessMetrics) BusUseCase {
	return &busUseCaseWithMetrics{next: useCase, metrics: m}
}

func (b *busUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	b.metrics.RecordOperation(ctx, "fleet", operation, status)
	b.metrics.RecordDuration(ctx, "fleet", operation, time.Since(start), status)
}

func (b *busUseCaseWithMetrics) Create(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateBusInput,
) (*domain.Bus, error) {
	start := time.Now()
	out, err := b.next.Create(ctx, p, input)
	b.record(ctx, "bus_create", start, err)
	return out, err
}

func (b *busUseCaseWithMetrics) Get(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Bus, error) {
	start := time.Now()
	out, err := b.next.Get(ctx, p, id)
	b.record(ctx, "bus_get", start, err)
	return out, err
}

func (b *busUseCaseWithMetrics) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.Bus, error) {
	start := time.Now()
	out, err := b.next.List(ctx, p, filter)
	b.record(ctx, "bus_list", start, err)
	return out, err
}

func (b *busUseCaseWithMetrics) Update(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	input *domain.UpdateBusInput,
) (*domain.Bus, error) {
	start := time.Now()
	out, err := b.next.Update(ctx, p, id, input)
	b.record(ctx, "bus_update", start, err)
	return out, err
}

func (b *busUseCaseWithMetrics) Retire(ctx context.Context, p *authDomain.Principal, id uuid.UUID) (*domain.Bus, error) {
	start := time.Now()
	out, err := b.next.Retire(ctx, p, id)
	b.record(ctx, "bus_retire", start, err)
	return out, err
}
