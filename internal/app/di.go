// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	authRepository "github.com/capitaldesk/desk/internal/auth/repository"
	authService "github.com/capitaldesk/desk/internal/auth/service"
	authUseCase "github.com/capitaldesk/desk/internal/auth/usecase"
	casesRepository "github.com/capitaldesk/desk/internal/cases/repository"
	casesUseCase "github.com/capitaldesk/desk/internal/cases/usecase"
	"github.com/capitaldesk/desk/internal/config"
	"github.com/capitaldesk/desk/internal/database"
	fleetRepository "github.com/capitaldesk/desk/internal/fleet/repository"
	fleetUseCase "github.com/capitaldesk/desk/internal/fleet/usecase"
	"github.com/capitaldesk/desk/internal/http"
	"github.com/capitaldesk/desk/internal/metrics"
	notificationRepository "github.com/capitaldesk/desk/internal/notification/repository"
	notificationUseCase "github.com/capitaldesk/desk/internal/notification/usecase"
	outboxRepository "github.com/capitaldesk/desk/internal/outbox/repository"
	outboxService "github.com/capitaldesk/desk/internal/outbox/service"
	outboxUseCase "github.com/capitaldesk/desk/internal/outbox/usecase"
	"github.com/capitaldesk/desk/internal/ratelimit"
	shiftRepository "github.com/capitaldesk/desk/internal/shift/repository"
	shiftUseCase "github.com/capitaldesk/desk/internal/shift/usecase"
	stsRepository "github.com/capitaldesk/desk/internal/sts/repository"
	stsUseCase "github.com/capitaldesk/desk/internal/sts/usecase"
	tenantRepository "github.com/capitaldesk/desk/internal/tenant/repository"
	tenantUseCase "github.com/capitaldesk/desk/internal/tenant/usecase"
	workOrderRepository "github.com/capitaldesk/desk/internal/workorder/repository"
	workOrderUseCase "github.com/capitaldesk/desk/internal/workorder/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern: components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	dialect         database.Dialect
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	redisClient     *redis.Client

	// Background work started by components (limiter sweeper, throttle cleanup)
	// stops when Shutdown cancels this context.
	background       context.Context
	cancelBackground context.CancelFunc

	// Auth and tenants
	passwordService      authService.PasswordService
	tokenService         authService.TokenService
	tenantRepository     *tenantRepository.TenantRepository
	tenantUseCase        tenantUseCase.TenantUseCase
	userRepository       *authRepository.UserRepository
	sessionRepository    *authRepository.SessionRepository
	resetTokenRepository *authRepository.ResetTokenRepository
	rateLimiter          ratelimit.Limiter
	rateGuard            *ratelimit.Guard
	sessionUseCase       authUseCase.SessionUseCase
	passwordResetUseCase authUseCase.PasswordResetUseCase
	userUseCase          authUseCase.UserUseCase

	// Domain
	busRepository          *fleetRepository.BusRepository
	busUseCase             fleetUseCase.BusUseCase
	caseRepository         *casesRepository.CaseRepository
	caseUseCase            casesUseCase.CaseUseCase
	workOrderRepository    *workOrderRepository.WorkOrderRepository
	workOrderUseCase       workOrderUseCase.WorkOrderUseCase
	shiftRepository        *shiftRepository.ShiftRepository
	shiftUseCase           shiftUseCase.ShiftUseCase
	ticketRepository       *stsRepository.TicketRepository
	commentRepository      *stsRepository.CommentRepository
	stsUseCase             stsUseCase.StsUseCase
	notificationRepository *notificationRepository.NotificationRepository
	notificationUseCase    notificationUseCase.NotificationUseCase

	// Outbox
	outboxRepository *outboxRepository.OutboxEventRepository
	sealer           outboxService.Sealer
	publisher        outboxService.Publisher
	outboxUseCase    outboxUseCase.UseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                       sync.Mutex
	loggerInit               sync.Once
	dbInit                   sync.Once
	dialectInit              sync.Once
	txManagerInit            sync.Once
	metricsProviderInit      sync.Once
	businessMetricsInit      sync.Once
	passwordServiceInit      sync.Once
	tokenServiceInit         sync.Once
	tenantRepositoryInit     sync.Once
	tenantUseCaseInit        sync.Once
	userRepositoryInit       sync.Once
	sessionRepositoryInit    sync.Once
	resetTokenRepositoryInit sync.Once
	rateLimiterInit          sync.Once
	rateGuardInit            sync.Once
	sessionUseCaseInit       sync.Once
	passwordResetUseCaseInit sync.Once
	userUseCaseInit          sync.Once
	busRepositoryInit        sync.Once
	busUseCaseInit           sync.Once
	caseRepositoryInit       sync.Once
	caseUseCaseInit          sync.Once
	workOrderRepositoryInit  sync.Once
	workOrderUseCaseInit     sync.Once
	shiftRepositoryInit      sync.Once
	shiftUseCaseInit         sync.Once
	ticketRepositoryInit     sync.Once
	commentRepositoryInit    sync.Once
	stsUseCaseInit           sync.Once
	notificationRepoInit     sync.Once
	notificationUseCaseInit  sync.Once
	outboxRepositoryInit     sync.Once
	sealerInit               sync.Once
	publisherInit            sync.Once
	outboxUseCaseInit        sync.Once
	httpServerInit           sync.Once
	metricsServerInit        sync.Once
	initErrors               map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	background, cancel := context.WithCancel(context.Background())
	return &Container{
		config:           cfg,
		background:       background,
		cancelBackground: cancel,
		initErrors:       make(map[string]error),
	}
}

// lazy runs init once and caches either its value or its error under name.
func lazy[T any](c *Container, once *sync.Once, name string, target *T, init func() (T, error)) (T, error) {
	once.Do(func() {
		v, err := init()
		if err != nil {
			c.mu.Lock()
			c.initErrors[name] = err
			c.mu.Unlock()
			return
		}
		*target = v
	})

	c.mu.Lock()
	err, failed := c.initErrors[name]
	c.mu.Unlock()
	if failed {
		var zero T
		return zero, err
	}
	return *target, nil
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	return lazy(c, &c.dbInit, "db", &c.db, c.initDB)
}

// Dialect returns the SQL dialect of the configured driver.
func (c *Container) Dialect() (database.Dialect, error) {
	return lazy(c, &c.dialectInit, "dialect", &c.dialect, func() (database.Dialect, error) {
		return database.DialectFor(c.config.DBDriver)
	})
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	return lazy(c, &c.txManagerInit, "txManager", &c.txManager, c.initTxManager)
}

// MetricsProvider returns the Prometheus-backed meter provider, or nil when metrics
// are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return lazy(c, &c.metricsProviderInit, "metricsProvider", &c.metricsProvider, c.initMetricsProvider)
}

// BusinessMetrics returns the business metrics recorder. It is a no-op when metrics
// are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return lazy(c, &c.businessMetricsInit, "businessMetrics", &c.businessMetrics, c.initBusinessMetrics)
}

// HTTPServer returns the API server with every route mounted.
func (c *Container) HTTPServer() (*http.Server, error) {
	return lazy(c, &c.httpServerInit, "httpServer", &c.httpServer, c.initHTTPServer)
}

// MetricsServer returns the server exposing /metrics, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return lazy(c, &c.metricsServerInit, "metricsServer", &c.metricsServer, c.initMetricsServer)
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelBackground()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.publisher != nil {
		if err := c.publisher.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("publisher shutdown: %w", err))
		}
	}

	if c.sealer != nil {
		if err := c.sealer.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("sealer close: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(shutdownErrors...))
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// repositoryDeps returns what every repository constructor needs.
func (c *Container) repositoryDeps() (*sql.DB, database.Dialect, error) {
	db, err := c.DB()
	if err != nil {
		return nil, "", err
	}
	dialect, err := c.Dialect()
	if err != nil {
		return nil, "", err
	}
	return db, dialect, nil
}

func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}
	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for http server: %w", err)
	}
	handlers, err := c.httpHandlers()
	if err != nil {
		return nil, fmt.Errorf("failed to build http handlers: %w", err)
	}
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(c.background, c.config, handlers, sessionUseCase, c.TokenService(), provider)
	return server, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
