package app

import (
	"fmt"
	"time"

	authHTTP "github.com/capitaldesk/desk/internal/auth/http"
	authRepository "github.com/capitaldesk/desk/internal/auth/repository"
	authService "github.com/capitaldesk/desk/internal/auth/service"
	authUseCase "github.com/capitaldesk/desk/internal/auth/usecase"
	"github.com/capitaldesk/desk/internal/ratelimit"
	tenantRepository "github.com/capitaldesk/desk/internal/tenant/repository"
	tenantUseCase "github.com/capitaldesk/desk/internal/tenant/usecase"
)

// limiterSweepInterval is how often the in-memory limiter drops expired windows.
const limiterSweepInterval = time.Minute

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() authService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = authService.NewPasswordService()
	})
	return c.passwordService
}

// TokenService returns the session and reset token service.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService
}

// TenantRepository returns the tenant repository.
func (c *Container) TenantRepository() (*tenantRepository.TenantRepository, error) {
	return lazy(c, &c.tenantRepositoryInit, "tenantRepository", &c.tenantRepository,
		func() (*tenantRepository.TenantRepository, error) {
			db, dialect, err := c.repositoryDeps()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for tenant repository: %w", err)
			}
			return tenantRepository.NewTenantRepository(db, dialect), nil
		})
}

// TenantUseCase returns the tenant use case.
func (c *Container) TenantUseCase() (tenantUseCase.TenantUseCase, error) {
	return lazy(c, &c.tenantUseCaseInit, "tenantUseCase", &c.tenantUseCase,
		func() (tenantUseCase.TenantUseCase, error) {
			repo, err := c.TenantRepository()
			if err != nil {
				return nil, fmt.Errorf("failed to get tenant repository for tenant use case: %w", err)
			}
			return tenantUseCase.NewTenantUseCase(repo), nil
		})
}

// UserRepository returns the user repository. The domain use cases also use it to
// resolve assignees and technicians.
func (c *Container) UserRepository() (*authRepository.UserRepository, error) {
	return lazy(c, &c.userRepositoryInit, "userRepository", &c.userRepository,
		func() (*authRepository.UserRepository, error) {
			db, dialect, err := c.repositoryDeps()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for user repository: %w", err)
			}
			return authRepository.NewUserRepository(db, dialect), nil
		})
}

// SessionRepository returns the session repository.
func (c *Container) SessionRepository() (*authRepository.SessionRepository, error) {
	return lazy(c, &c.sessionRepositoryInit, "sessionRepository", &c.sessionRepository,
		func() (*authRepository.SessionRepository, error) {
			db, dialect, err := c.repositoryDeps()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for session repository: %w", err)
			}
			return authRepository.NewSessionRepository(db, dialect), nil
		})
}

// ResetTokenRepository returns the password reset token repository.
func (c *Container) ResetTokenRepository() (*authRepository.ResetTokenRepository, error) {
	return lazy(c, &c.resetTokenRepositoryInit, "resetTokenRepository", &c.resetTokenRepository,
		func() (*authRepository.ResetTokenRepository, error) {
			db, dialect, err := c.repositoryDeps()
			if err != nil {
				return nil, fmt.Errorf("failed to get database for reset token repository: %w", err)
			}
			return authRepository.NewResetTokenRepository(db, dialect), nil
		})
}

// RateLimiter returns the fixed-window limiter selected by RATE_LIMIT_BACKEND.
func (c *Container) RateLimiter() (ratelimit.Limiter, error) {
	return lazy(c, &c.rateLimiterInit, "rateLimiter", &c.rateLimiter, c.initRateLimiter)
}

// RateGuard returns the guard enforcing the authentication policies.
func (c *Container) RateGuard() (*ratelimit.Guard, error) {
	return lazy(c, &c.rateGuardInit, "rateGuard", &c.rateGuard, func() (*ratelimit.Guard, error) {
		limiter, err := c.RateLimiter()
		if err != nil {
			return nil, fmt.Errorf("failed to get rate limiter for guard: %w", err)
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for guard: %w", err)
		}
		return ratelimit.NewGuard(limiter, businessMetrics, c.Logger()), nil
	})
}

// SessionUseCase returns the sign-in use case wrapped with metrics.
func (c *Container) SessionUseCase() (authUseCase.SessionUseCase, error) {
	return lazy(c, &c.sessionUseCaseInit, "sessionUseCase", &c.sessionUseCase, c.initSessionUseCase)
}

// PasswordResetUseCase returns the password reset use case wrapped with metrics.
func (c *Container) PasswordResetUseCase() (authUseCase.PasswordResetUseCase, error) {
	return lazy(c, &c.passwordResetUseCaseInit, "passwordResetUseCase", &c.passwordResetUseCase,
		c.initPasswordResetUseCase)
}

// UserUseCase returns the user administration use case.
func (c *Container) UserUseCase() (authUseCase.UserUseCase, error) {
	return lazy(c, &c.userUseCaseInit, "userUseCase", &c.userUseCase, func() (authUseCase.UserUseCase, error) {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
		}
		userRepo, err := c.UserRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
		}
		sessionRepo, err := c.SessionRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get session repository for user use case: %w", err)
		}
		return authUseCase.NewUserUseCase(txManager, userRepo, sessionRepo, c.PasswordService()), nil
	})
}

func (c *Container) initRateLimiter() (ratelimit.Limiter, error) {
	switch c.config.RateLimitBackend {
	case "redis":
		client, err := ratelimit.NewRedisClient(c.config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		c.redisClient = client
		return ratelimit.NewRedisLimiter(client, "capitaldesk:ratelimit:"), nil
	case "memory", "":
		limiter := ratelimit.NewMemoryLimiter()
		limiter.StartSweeper(c.background, limiterSweepInterval, c.Logger())
		return limiter, nil
	default:
		return nil, fmt.Errorf("unsupported rate limit backend: %s", c.config.RateLimitBackend)
	}
}

func (c *Container) initSessionUseCase() (authUseCase.SessionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for session use case: %w", err)
	}
	tenants, err := c.TenantUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant use case for session use case: %w", err)
	}
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for session use case: %w", err)
	}
	sessionRepo, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for session use case: %w", err)
	}
	guard, err := c.RateGuard()
	if err != nil {
		return nil, fmt.Errorf("failed to get rate guard for session use case: %w", err)
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for session use case: %w", err)
	}

	useCase := authUseCase.NewSessionUseCase(
		c.config,
		txManager,
		tenants,
		userRepo,
		sessionRepo,
		c.PasswordService(),
		c.TokenService(),
		guard,
		ratelimit.PoliciesFromConfig(c.config),
	)
	return authUseCase.NewSessionUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initPasswordResetUseCase() (authUseCase.PasswordResetUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for password reset use case: %w", err)
	}
	tenants, err := c.TenantUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant use case for password reset use case: %w", err)
	}
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for password reset use case: %w", err)
	}
	sessionRepo, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for password reset use case: %w", err)
	}
	resetRepo, err := c.ResetTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token repository for password reset use case: %w", err)
	}
	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for password reset use case: %w", err)
	}
	sealer, err := c.Sealer()
	if err != nil {
		return nil, fmt.Errorf("failed to get sealer for password reset use case: %w", err)
	}
	guard, err := c.RateGuard()
	if err != nil {
		return nil, fmt.Errorf("failed to get rate guard for password reset use case: %w", err)
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for password reset use case: %w", err)
	}

	useCase := authUseCase.NewPasswordResetUseCase(
		c.config,
		txManager,
		tenants,
		userRepo,
		sessionRepo,
		resetRepo,
		outboxRepo,
		c.PasswordService(),
		c.TokenService(),
		sealer,
		guard,
		ratelimit.PoliciesFromConfig(c.config),
	)
	return authUseCase.NewPasswordResetUseCaseWithMetrics(useCase, businessMetrics), nil
}

// authHandlers builds the session, password reset and user administration handlers.
func (c *Container) authHandlers() (
	*authHTTP.SessionHandler,
	*authHTTP.PasswordResetHandler,
	*authHTTP.UserHandler,
	error,
) {
	logger := c.Logger()

	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, nil, nil, err
	}
	resetUseCase, err := c.PasswordResetUseCase()
	if err != nil {
		return nil, nil, nil, err
	}
	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, nil, nil, err
	}

	cookie := authHTTP.CookieConfig{
		Name:   c.config.SessionCookieName,
		Secure: c.config.SessionCookieSecure,
	}
	return authHTTP.NewSessionHandler(sessionUseCase, cookie, logger),
		authHTTP.NewPasswordResetHandler(resetUseCase, logger),
		authHTTP.NewUserHandler(userUseCase, logger),
		nil
}
