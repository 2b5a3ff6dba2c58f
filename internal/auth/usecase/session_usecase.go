package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	authService "github.com/capitaldesk/desk/internal/auth/service"
	"github.com/capitaldesk/desk/internal/config"
	"github.com/capitaldesk/desk/internal/database"
	"github.com/capitaldesk/desk/internal/ratelimit"
	tenantDomain "github.com/capitaldesk/desk/internal/tenant/domain"
)

// sessionUseCase implements SessionUseCase.
type sessionUseCase struct {
	config          *config.Config
	txManager       database.TxManager
	tenants         TenantResolver
	userRepo        UserRepository
	sessionRepo     SessionRepository
	passwordService authService.PasswordService
	tokenService    authService.TokenService
	guard           RateGuard
	policy          ratelimit.Policy
	now             func() time.Time
}

// NewSessionUseCase creates a new SessionUseCase with the provided dependencies.
func NewSessionUseCase(
	cfg *config.Config,
	txManager database.TxManager,
	tenants TenantResolver,
	userRepo UserRepository,
	sessionRepo SessionRepository,
	passwordService authService.PasswordService,
	tokenService authService.TokenService,
	guard RateGuard,
	policies ratelimit.Policies,
) SessionUseCase {
	return &sessionUseCase{
		config:          cfg,
		txManager:       txManager,
		tenants:         tenants,
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		guard:           guard,
		policy:          policies.Login,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *sessionUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	slug := strings.ToLower(strings.TrimSpace(input.TenantSlug))
	email := normalizeEmail(input.Email)

	if err := s.guard.Enforce(ctx, s.policy, "ip:"+input.RemoteAddr); err != nil {
		return nil, err
	}
	if err := s.guard.Enforce(ctx, s.policy, "account:"+slug+":"+email); err != nil {
		return nil, err
	}

	tenant, err := s.tenants.ResolveActive(ctx, slug)
	if err != nil {
		if errors.Is(err, tenantDomain.ErrTenantNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}
	scope, err := database.NewScope(tenant.ID)
	if err != nil {
		return nil, err
	}

	var (
		output  *authDomain.LoginOutput
		denial  error
		lockout = s.config.LockoutMaxAttempts
	)

	// Failed attempts are committed even though the login is refused, so the denial
	// is carried out of the transaction instead of being returned from it.
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByEmail(ctx, scope, email)
		if err != nil {
			if errors.Is(err, authDomain.ErrUserNotFound) {
				denial = authDomain.ErrInvalidCredentials
				return nil
			}
			return err
		}

		now := s.now()
		if user.IsLocked(now) {
			denial = authDomain.ErrAccountLocked
			return nil
		}

		if !s.passwordService.Compare(input.Password, user.PasswordHash) {
			user.FailedAttempts++
			denial = authDomain.ErrInvalidCredentials
			if lockout > 0 && user.FailedAttempts >= lockout {
				lockedUntil := now.Add(s.config.LockoutDuration)
				user.LockedUntil = &lockedUntil
				user.FailedAttempts = 0
				denial = authDomain.ErrAccountLocked
			}
			user.UpdatedAt = now
			return s.userRepo.Update(ctx, scope, user)
		}

		if !user.IsActive {
			denial = authDomain.ErrInvalidCredentials
			return nil
		}

		if user.FailedAttempts > 0 || user.LockedUntil != nil {
			user.FailedAttempts = 0
			user.LockedUntil = nil
			user.UpdatedAt = now
			if err := s.userRepo.Update(ctx, scope, user); err != nil {
				return err
			}
		}

		plainToken, tokenHash, err := s.tokenService.GenerateToken()
		if err != nil {
			return err
		}

		session := &authDomain.Session{
			ID:             uuid.Must(uuid.NewV7()),
			TenantID:       tenant.ID,
			UserID:         user.ID,
			TokenHash:      tokenHash,
			SessionVersion: user.SessionVersion,
			ExpiresAt:      now.Add(s.config.SessionExpiration),
			CreatedAt:      now,
		}
		if err := s.sessionRepo.Create(ctx, scope, session); err != nil {
			return err
		}

		output = &authDomain.LoginOutput{
			Token:     plainToken,
			ExpiresAt: session.ExpiresAt,
			Principal: user.Principal(session.ID),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if denial != nil {
		return nil, denial
	}
	return output, nil
}

func (s *sessionUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Principal, error) {
	session, err := s.sessionRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrSessionNotFound) {
			return nil, authDomain.ErrSessionInvalid
		}
		return nil, err
	}
	if !session.IsUsable(s.now()) {
		return nil, authDomain.ErrSessionInvalid
	}

	scope, err := database.NewScope(session.TenantID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Get(ctx, scope, session.UserID)
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return nil, authDomain.ErrSessionInvalid
		}
		return nil, err
	}
	if !user.IsActive || user.SessionVersion != session.SessionVersion {
		return nil, authDomain.ErrSessionInvalid
	}

	return user.Principal(session.ID), nil
}

func (s *sessionUseCase) Logout(ctx context.Context, principal *authDomain.Principal) error {
	scope, err := database.NewScope(principal.TenantID)
	if err != nil {
		return err
	}
	return s.sessionRepo.Revoke(ctx, scope, principal.SessionID, s.now())
}

func (s *sessionUseCase) CleanExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.now().Add(-olderThan))
}
