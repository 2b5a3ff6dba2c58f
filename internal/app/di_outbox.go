package app

import (
	"context"
	"fmt"

	outboxRepository "github.com/capitaldesk/desk/internal/outbox/repository"
	outboxService "github.com/capitaldesk/desk/internal/outbox/service"
	outboxUseCase "github.com/capitaldesk/desk/internal/outbox/usecase"
)

// OutboxRepository returns the outbox event repository shared by every producer.
func (c *Container) OutboxRepository() (*outboxRepository.OutboxEventRepository, error) {
	return lazy(c, &c.outboxRepositoryInit, "outboxRepository", &c.outboxRepository,
		func() (*outboxRepository.OutboxEventRepository, error) {
			db, dialect, err := c.repositoryDeps()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
			}
			return outboxRepository.NewOutboxEventRepository(db, dialect), nil
		})
}

// Sealer returns the keeper that seals reset tokens before they enter the outbox.
func (c *Container) Sealer() (outboxService.Sealer, error) {
	return lazy(c, &c.sealerInit, "sealer", &c.sealer, func() (outboxService.Sealer, error) {
		sealer, err := outboxService.OpenSealer(context.Background(), c.config.OutboxKeeperURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open outbox keeper: %w", err)
		}
		return sealer, nil
	})
}

// Publisher returns the topic notifications and reset mails are published to.
func (c *Container) Publisher() (outboxService.Publisher, error) {
	return lazy(c, &c.publisherInit, "publisher", &c.publisher, func() (outboxService.Publisher, error) {
		publisher, err := outboxService.OpenPublisher(context.Background(), c.config.NotificationTopicURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open notification topic: %w", err)
		}
		return publisher, nil
	})
}

// OutboxUseCase returns the outbox worker.
func (c *Container) OutboxUseCase() (outboxUseCase.UseCase, error) {
	return lazy(c, &c.outboxUseCaseInit, "outboxUseCase", &c.outboxUseCase, c.initOutboxUseCase)
}

// initOutboxUseCase creates the outbox worker with all its dependencies.
func (c *Container) initOutboxUseCase() (outboxUseCase.UseCase, error) {
	logger := c.Logger()

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for outbox use case: %w", err)
	}
	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox use case: %w", err)
	}
	notifier, err := c.NotificationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification use case for outbox use case: %w", err)
	}
	publisher, err := c.Publisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get publisher for outbox use case: %w", err)
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for outbox use case: %w", err)
	}

	useCaseConfig := outboxUseCase.Config{
		Interval:   c.config.WorkerInterval,
		BatchSize:  c.config.WorkerBatchSize,
		MaxRetries: c.config.WorkerMaxRetries,
	}

	processor := outboxUseCase.NewNotificationProcessor(notifier, publisher, logger)
	return outboxUseCase.NewOutboxUseCase(useCaseConfig, txManager, outboxRepo, processor, businessMetrics, logger), nil
}
