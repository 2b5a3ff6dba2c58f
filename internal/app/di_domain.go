package app

import (
	"fmt"

	casesHTTP "github.com/capitaldesk/desk/internal/cases/http"
	casesRepository "github.com/capitaldesk/desk/internal/cases/repository"
	casesUseCase "github.com/capitaldesk/desk/internal/cases/usecase"
	fleetHTTP "github.com/capitaldesk/desk/internal/fleet/http"
	fleetRepository "github.com/capitaldesk/desk/internal/fleet/repository"
	fleetUseCase "github.com/capitaldesk/desk/internal/fleet/usecase"
	"github.com/capitaldesk/desk/internal/http"
	notificationHTTP "github.com/capitaldesk/desk/internal/notification/http"
	notificationRepository "github.com/capitaldesk/desk/internal/notification/repository"
	notificationUseCase "github.com/capitaldesk/desk/internal/notification/usecase"
	shiftHTTP "github.com/capitaldesk/desk/internal/shift/http"
	shiftRepository "github.com/capitaldesk/desk/internal/shift/repository"
	shiftUseCase "github.com/capitaldesk/desk/internal/shift/usecase"
	stsHTTP "github.com/capitaldesk/desk/internal/sts/http"
	stsRepository "github.com/capitaldesk/desk/internal/sts/repository"
	stsUseCase "github.com/capitaldesk/desk/internal/sts/usecase"
	workOrderHTTP "github.com/capitaldesk/desk/internal/workorder/http"
	workOrderRepository "github.com/capitaldesk/desk/internal/workorder/repository"
	workOrderUseCase "github.com/capitaldesk/desk/internal/workorder/usecase"
)

// BusRepository returns the fleet repository.
func (c *Container) BusRepository() (*fleetRepository.BusRepository, error) {
	return lazy(c, &c.busRepositoryInit, "busRepository", &c.busRepository,
		func() (*fleetRepository.BusRepository, error) {
			db, dialect, err := c.repositoryDeps()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for bus repository: %w", err)
			}
			return fleetRepository.NewBusRepository(db, dialect), nil
		})
}

// BusUseCase returns the fleet use case wrapped with metrics.
func (c *Container) BusUseCase() (fleetUseCase.BusUseCase, error) {
	return lazy(c, &c.busUseCaseInit, "busUseCase", &c.busUseCase, func() (fleetUseCase.BusUseCase, error) {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, fmt.Errorf("failed to get tx manager for bus use case: %w", err)
		}
		repo, err := c.BusRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get bus repository for bus use case: %w", err)
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for bus use case: %w", err)
		}
		return fleetUseCase.NewBusUseCaseWithMetrics(
			fleetUseCase.NewBusUseCase(txManager, repo),
			businessMetrics,
		), nil
	})
}

// CaseRepository returns the service case repository.
func (c *Container) CaseRepository() (*casesRepository.CaseRepository, error) {
	return lazy(c, &c.caseRepositoryInit, "caseRepository", &c.caseRepository,
		func() (*casesRepository.CaseRepository, error) {
			db, dialect, err := c.repositoryDeps()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for case repository: %w", err)
			}
			return casesRepository.NewCaseRepository(db, dialect), nil
		})
}

// CaseUseCase returns the service case use case wrapped with metrics.
func (c *Container) CaseUseCase() (casesUseCase.CaseUseCase, error) {
	return lazy(c, &c.caseUseCaseInit, "caseUseCase", &c.caseUseCase, func() (casesUseCase.CaseUseCase, error) {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, fmt.Errorf("failed to get tx manager for case use case: %w", err)
		}
		repo, err := c.CaseRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get case repository for case use case: %w", err)
		}
		buses, err := c.BusRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get bus repository for case use case: %w", err)
		}
		users, err := c.UserRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get user repository for case use case: %w", err)
		}
		outboxRepo, err := c.OutboxRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get outbox repository for case use case: %w", err)
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for case use case: %w", err)
		}
		return casesUseCase.NewCaseUseCaseWithMetrics(
			casesUseCase.NewCaseUseCase(txManager, repo, buses, users, outboxRepo),
			businessMetrics,
		), nil
	})
}

// WorkOrderRepository returns the work order repository.
func (c *Container) WorkOrderRepository() (*workOrderRepository.WorkOrderRepository, error) {
	return lazy(c, &c.workOrderRepositoryInit, "workOrderRepository", &c.workOrderRepository,
		func() (*workOrderRepository.WorkOrderRepository, error) {
			db, dialect, err := c.repositoryDeps()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for work order repository: %w", err)
			}
			return workOrderRepository.NewWorkOrderRepository(db, dialect), nil
		})
}

// WorkOrderUseCase returns the work order use case wrapped with metrics.
func (c *Container) WorkOrderUseCase() (workOrderUseCase.WorkOrderUseCase, error) {
	return lazy(c, &c.workOrderUseCaseInit, "workOrderUseCase", &c.workOrderUseCase,
		func() (workOrderUseCase.WorkOrderUseCase, error) {
			txManager, err := c.TxManager()
			if err != nil {
				return nil, fmt.Errorf("failed to get tx manager for work order use case: %w", err)
			}
			repo, err := c.WorkOrderRepository()
			if err != nil {
				return nil, fmt.Errorf("failed to get work order repository for work order use case: %w", err)
			}
			cases, err := c.CaseRepository()
			if err != nil {
				return nil, fmt.Errorf("failed to get case repository for work order use case: %w", err)
			}
			buses, err := c.BusRepository()
			if err != nil {
				return nil, fmt.Errorf("failed to get bus repository for work order use case: %w", err)
			}
			users, err := c.UserRepository()
			if err != nil {
				return nil, fmt.Errorf("failed to get user repository for work order use case: %w", err)
			}
			outboxRepo, err := c.OutboxRepository()
			if err != nil {
				return nil, fmt.Errorf("failed to get outbox repository for work order use case: %w", err)
			}
			businessMetrics, err := c.BusinessMetrics()
			if err != nil {
				return nil, fmt.Errorf("failed to get business metrics for work order use case: %w", err)
			}
			return workOrderUseCase.NewWorkOrderUseCaseWithMetrics(
				workOrderUseCase.NewWorkOrderUseCase(txManager, repo, cases, buses, users, outboxRepo),
				businessMetrics,
			), nil
		})
}

// ShiftRepository returns the planner repository.
func (c *Container) ShiftRepository() (*shiftRepository.ShiftRepository, error) {
	return lazy(c, &c.shiftRepositoryInit, "shiftRepository", &c.shiftRepository,
		func() (*shiftRepository.ShiftRepository, error) {
			db, dialect, err := c.repositoryDeps()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for shift repository: %w", err)
			}
			return shiftRepository.NewShiftRepository(db, dialect), nil
		})
}

// ShiftUseCase returns the planner use case wrapped with metrics.
func (c *Container) ShiftUseCase() (shiftUseCase.ShiftUseCase, error) {
	return lazy(c, &c.shiftUseCaseInit, "shiftUseCase", &c.shiftUseCase, func() (shiftUseCase.ShiftUseCase, error) {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, fmt.Errorf("failed to get tx manager for shift use case: %w", err)
		}
		repo, err := c.ShiftRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get shift repository for shift use case: %w", err)
		}
		users, err := c.UserRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get user repository for shift use case: %w", err)
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for shift use case: %w", err)
		}
		return shiftUseCase.NewShiftUseCaseWithMetrics(
			shiftUseCase.NewShiftUseCase(txManager, repo, users),
			businessMetrics,
		), nil
	})
}

// TicketRepository returns the STS ticket repository.
func (c *Container) TicketRepository() (*stsRepository.TicketRepository, error) {
	return lazy(c, &c.ticketRepositoryInit, "ticketRepository", &c.ticketRepository,
		func() (*stsRepository.TicketRepository, error) {
			db, dialect, err := c.repositoryDeps()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for ticket repository: %w", err)
			}
			return stsRepository.NewTicketRepository(db, dialect), nil
		})
}

// CommentRepository returns the STS comment repository.
func (c *Container) CommentRepository() (*stsRepository.CommentRepository, error) {
	return lazy(c, &c.commentRepositoryInit, "commentRepository", &c.commentRepository,
		func() (*stsRepository.CommentRepository, error) {
			db, dialect, err := c.repositoryDeps()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for comment repository: %w", err)
			}
			return stsRepository.NewCommentRepository(db, dialect), nil
		})
}

// StsUseCase returns the STS ticketing use case wrapped with metrics.
func (c *Container) StsUseCase() (stsUseCase.StsUseCase, error) {
	return lazy(c, &c.stsUseCaseInit, "stsUseCase", &c.stsUseCase, func() (stsUseCase.StsUseCase, error) {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, fmt.Errorf("failed to get tx manager for sts use case: %w", err)
		}
		tickets, err := c.TicketRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get ticket repository for sts use case: %w", err)
		}
		comments, err := c.CommentRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get comment repository for sts use case: %w", err)
		}
		users, err := c.UserRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get user repository for sts use case: %w", err)
		}
		outboxRepo, err := c.OutboxRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get outbox repository for sts use case: %w", err)
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for sts use case: %w", err)
		}
		return stsUseCase.NewStsUseCaseWithMetrics(
			stsUseCase.NewStsUseCase(txManager, tickets, comments, users, outboxRepo),
			businessMetrics,
		), nil
	})
}

// NotificationRepository returns the in-app notification repository.
func (c *Container) NotificationRepository() (*notificationRepository.NotificationRepository, error) {
	return lazy(c, &c.notificationRepoInit, "notificationRepository", &c.notificationRepository,
		func() (*notificationRepository.NotificationRepository, error) {
			db, dialect, err := c.repositoryDeps()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for notification repository: %w", err)
			}
			return notificationRepository.NewNotificationRepository(db, dialect), nil
		})
}

// NotificationUseCase returns the in-app notification use case.
func (c *Container) NotificationUseCase() (notificationUseCase.NotificationUseCase, error) {
	return lazy(c, &c.notificationUseCaseInit, "notificationUseCase", &c.notificationUseCase,
		func() (notificationUseCase.NotificationUseCase, error) {
			repo, err := c.NotificationRepository()
			if err != nil {
				return nil, fmt.Errorf("failed to get notification repository for notification use case: %w", err)
			}
			return notificationUseCase.NewNotificationUseCase(repo), nil
		})
}

// httpHandlers builds every handler mounted by the API server.
func (c *Container) httpHandlers() (http.Handlers, error) {
	logger := c.Logger()

	session, resets, users, err := c.authHandlers()
	if err != nil {
		return http.Handlers{}, err
	}
	notifications, err := c.NotificationUseCase()
	if err != nil {
		return http.Handlers{}, err
	}
	buses, err := c.BusUseCase()
	if err != nil {
		return http.Handlers{}, err
	}
	cases, err := c.CaseUseCase()
	if err != nil {
		return http.Handlers{}, err
	}
	workOrders, err := c.WorkOrderUseCase()
	if err != nil {
		return http.Handlers{}, err
	}
	shifts, err := c.ShiftUseCase()
	if err != nil {
		return http.Handlers{}, err
	}
	sts, err := c.StsUseCase()
	if err != nil {
		return http.Handlers{}, err
	}

	return http.Handlers{
		Session:       session,
		PasswordReset: resets,
		Users:         users,
		Notifications: notificationHTTP.NewNotificationHandler(notifications, logger),
		Buses:         fleetHTTP.NewBusHandler(buses, logger),
		Cases:         casesHTTP.NewCaseHandler(cases, logger),
		WorkOrders:    workOrderHTTP.NewWorkOrderHandler(workOrders, logger),
		Shifts:        shiftHTTP.NewShiftHandler(shifts, logger),
		Sts:           stsHTTP.NewStsHandler(sts, logger),
	}, nil
}
