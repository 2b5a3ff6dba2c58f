// Package usecase implements the outbox worker: it drains pending events of every
// tenant and hands each one to an EventProcessor.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/capitaldesk/desk/internal/database"
	"github.com/capitaldesk/desk/internal/metrics"
	"github.com/capitaldesk/desk/internal/outbox/domain"
)

// Config holds outbox worker configuration.
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// OutboxEventRepository defines the outbox operations the worker needs.
type OutboxEventRepository interface {
	GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	Update(ctx context.Context, event *domain.OutboxEvent) error
}

// EventProcessor handles one delivered event.
type EventProcessor interface {
	Process(ctx context.Context, event *domain.OutboxEvent) error
}

// UseCase defines the outbox worker.
type UseCase interface {
	Start(ctx context.Context) error
	ProcessEvents(ctx context.Context) error
}

// OutboxUseCase polls the outbox and processes events.
type OutboxUseCase struct {
	config         Config
	txManager      database.TxManager
	outboxRepo     OutboxEventRepository
	eventProcessor EventProcessor
	metrics        metrics.BusinessMetrics
	logger         *slog.Logger
}

// NewOutboxUseCase creates a new OutboxUseCase.
func NewOutboxUseCase(
	config Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	eventProcessor EventProcessor,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *OutboxUseCase {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 1
	}
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &OutboxUseCase{
		config:         config,
		txManager:      txManager,
		outboxRepo:     outboxRepo,
		eventProcessor: eventProcessor,
		metrics:        businessMetrics,
		logger:         logger,
	}
}

// Start polls until ctx is cancelled.
func (uc *OutboxUseCase) Start(ctx context.Context) error {
	uc.logger.Info("starting outbox worker",
		slog.Duration("interval", uc.config.Interval),
		slog.Int("batch_size", uc.config.BatchSize),
		slog.Int("max_retries", uc.config.MaxRetries),
	)

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("stopping outbox worker")
			return ctx.Err()
		case <-ticker.C:
			if err := uc.ProcessEvents(ctx); err != nil {
				uc.logger.Error("failed to process outbox events", slog.Any("error", err))
			}
		}
	}
}

// ProcessEvents locks a batch of pending events and processes them in one transaction.
// A failing event is retried on later polls and marked failed after MaxRetries attempts.
func (uc *OutboxUseCase) ProcessEvents(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, err := uc.outboxRepo.GetPendingEvents(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		uc.logger.Debug("processing outbox events", slog.Int("count", len(events)))

		for _, event := range events {
			start := time.Now()
			procErr := uc.eventProcessor.Process(ctx, event)
			now := time.Now().UTC()
			event.UpdatedAt = now

			status := metrics.StatusSuccess
			if procErr != nil {
				status = metrics.StatusError
				event.Retries++
				msg := procErr.Error()
				event.LastError = &msg
				if event.Retries >= uc.config.MaxRetries {
					event.Status = domain.OutboxEventStatusFailed
				}

				uc.logger.Error("failed to process outbox event",
					slog.String("event_id", event.ID.String()),
					slog.String("tenant_id", event.TenantID.String()),
					slog.String("event_type", event.EventType),
					slog.Int("retries", event.Retries),
					slog.Any("error", procErr),
				)
			} else {
				event.Status = domain.OutboxEventStatusProcessed
				event.ProcessedAt = &now
				event.LastError = nil
			}

			uc.metrics.RecordOperation(ctx, "outbox", event.EventType, status)
			uc.metrics.RecordDuration(ctx, "outbox", event.EventType, time.Since(start), status)

			if err := uc.outboxRepo.Update(ctx, event); err != nil {
				return err
			}
		}

		return nil
	})
}
