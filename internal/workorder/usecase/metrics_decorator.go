package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/metrics"
	"github.com/capitaldesk/desk/internal/workorder/domain"
)

// workOrderUseCaseWithMetrics decorates WorkOrderUseCase with metrics instrumentation.
type workOrderUseCaseWithMetrics struct {
	next    WorkOrderUseCase
	metrics metrics.BusinessMetrics
}

// NewWorkOrderUseCaseWithMetrics wraps a WorkOrderUseCase with metrics recording.
func NewWorkOrderUseCaseWithMetrics(useCase WorkOrderUseCase, m metrics.BusinessMetrics) WorkOrderUseCase {
	return &workOrderUseCaseWithMetrics{next: useCase, metrics: m}
}

func (w *workOrderUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	w.metrics.RecordOperation(ctx, "work_orders", operation, status)
	w.metrics.RecordDuration(ctx, "work_orders", operation, time.Since(start), status)
}

func (w *workOrderUseCaseWithMetrics) Create(
	ctx context.Context,
	p *authDomain.Principal,
	input *domain.CreateWorkOrderInput,
) (*domain.WorkOrder, error) {
	start := time.Now()
	out, err := w.next.Create(ctx, p, input)
	w.record(ctx, "work_order_create", start, err)
	return out, err
}

func (w *workOrderUseCaseWithMetrics) Get(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
) (*domain.WorkOrder, error) {
	start := time.Now()
	out, err := w.next.Get(ctx, p, id)
	w.record(ctx, "work_order_get", start, err)
	return out, err
}

func (w *workOrderUseCaseWithMetrics) List(
	ctx context.Context,
	p *authDomain.Principal,
	filter domain.ListFilter,
) ([]*domain.WorkOrder, error) {
	start := time.Now()
	out, err := w.next.List(ctx, p, filter)
	w.record(ctx, "work_order_list", start, err)
	return out, err
}

func (w *workOrderUseCaseWithMetrics) Assign(
	ctx context.Context,
	p *authDomain.Principal,
	id, technicianID uuid.UUID,
) (*domain.WorkOrder, error) {
	start := time.Now()
	out, err := w.next.Assign(ctx, p, id, technicianID)
	w.record(ctx, "work_order_assign", start, err)
	return out, err
}

func (w *workOrderUseCaseWithMetrics) ChangeStatus(
	ctx context.Context,
	p *authDomain.Principal,
	id uuid.UUID,
	status domain.Status,
) (*domain.WorkOrder, error) {
	start := time.Now()
	out, err := w.next.ChangeStatus(ctx, p, id, status)
	w.record(ctx, "work_order_change_status", start, err)
	return out, err
}
