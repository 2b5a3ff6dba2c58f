package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	authService "github.com/capitaldesk/desk/internal/auth/service"
	"github.com/capitaldesk/desk/internal/config"
	"github.com/capitaldesk/desk/internal/database"
	outboxDomain "github.com/capitaldesk/desk/internal/outbox/domain"
	"github.com/capitaldesk/desk/internal/ratelimit"
	tenantDomain "github.com/capitaldesk/desk/internal/tenant/domain"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// passwordResetUseCase implements PasswordResetUseCase.
type passwordResetUseCase struct {
	config          *config.Config
	txManager       database.TxManager
	tenants         TenantResolver
	userRepo        UserRepository
	sessionRepo     SessionRepository
	resetRepo       ResetTokenRepository
	outboxRepo      OutboxRepository
	passwordService authService.PasswordService
	tokenService    authService.TokenService
	sealer          TokenSealer
	guard           RateGuard
	policies        ratelimit.Policies
	now             func() time.Time
}

// NewPasswordResetUseCase creates a new PasswordResetUseCase with the provided dependencies.
func NewPasswordResetUseCase(
	cfg *config.Config,
	txManager database.TxManager,
	tenants TenantResolver,
	userRepo UserRepository,
	sessionRepo SessionRepository,
	resetRepo ResetTokenRepository,
	outboxRepo OutboxRepository,
	passwordService authService.PasswordService,
	tokenService authService.TokenService,
	sealer TokenSealer,
	guard RateGuard,
	policies ratelimit.Policies,
) PasswordResetUseCase {
	return &passwordResetUseCase{
		config:          cfg,
		txManager:       txManager,
		tenants:         tenants,
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		resetRepo:       resetRepo,
		outboxRepo:      outboxRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		sealer:          sealer,
		guard:           guard,
		policies:        policies,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (p *passwordResetUseCase) Request(ctx context.Context, input *authDomain.PasswordResetRequest) error {
	slug := strings.ToLower(strings.TrimSpace(input.TenantSlug))
	email := normalizeEmail(input.Email)

	if err := p.guard.Enforce(ctx, p.policies.PasswordReset, "ip:"+input.RemoteAddr); err != nil {
		return err
	}
	if err := p.guard.Enforce(ctx, p.policies.PasswordReset, "account:"+slug+":"+email); err != nil {
		return err
	}

	tenant, err := p.tenants.ResolveActive(ctx, slug)
	if err != nil {
		if errors.Is(err, tenantDomain.ErrTenantNotFound) {
			return nil
		}
		return err
	}
	scope, err := database.NewScope(tenant.ID)
	if err != nil {
		return err
	}

	return p.txManager.WithTx(ctx, func(ctx context.Context) error {
		user, err := p.userRepo.GetByEmail(ctx, scope, email)
		if err != nil {
			if errors.Is(err, authDomain.ErrUserNotFound) {
				return nil
			}
			return err
		}
		if !user.IsActive {
			return nil
		}

		plainToken, tokenHash, err := p.tokenService.GenerateToken()
		if err != nil {
			return err
		}

		now := p.now()
		token := &authDomain.PasswordResetToken{
			ID:        uuid.Must(uuid.NewV7()),
			TenantID:  tenant.ID,
			UserID:    user.ID,
			TokenHash: tokenHash,
			ExpiresAt: now.Add(p.config.PasswordResetExpiration),
			CreatedAt: now,
		}
		if err := p.resetRepo.Create(ctx, scope, token); err != nil {
			return err
		}

		sealed, err := p.sealer.Seal(ctx, plainToken)
		if err != nil {
			return err
		}

		event, err := outboxDomain.NewEvent(tenant.ID, outboxDomain.EventPasswordResetRequested,
			outboxDomain.PasswordResetPayload{
				UserID:      user.ID,
				Email:       user.Email,
				SealedToken: sealed,
				ExpiresAt:   token.ExpiresAt,
			})
		if err != nil {
			return err
		}
		return p.outboxRepo.Create(ctx, scope, event)
	})
}

func (p *passwordResetUseCase) Confirm(ctx context.Context, input *authDomain.PasswordResetConfirm) error {
	if err := p.guard.Enforce(ctx, p.policies.PasswordReset, "ip:"+input.RemoteAddr); err != nil {
		return err
	}

	err := validation.Errors{
		"token":        validation.Validate(input.Token, validation.Required),
		"new_password": validation.Validate(input.NewPassword, validation.Required, customValidation.DefaultPassword),
	}.Filter()
	if err != nil {
		return customValidation.WrapValidationError(err)
	}

	token, err := p.resetRepo.GetByTokenHash(ctx, p.tokenService.HashToken(input.Token))
	if err != nil {
		if errors.Is(err, authDomain.ErrResetTokenNotFound) {
			return authDomain.ErrResetTokenInvalid
		}
		return err
	}
	now := p.now()
	if !token.IsUsable(now) {
		return authDomain.ErrResetTokenInvalid
	}

	hash, err := p.passwordService.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	scope, err := database.NewScope(token.TenantID)
	if err != nil {
		return err
	}

	return p.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := p.resetRepo.MarkUsed(ctx, scope, token.ID, now); err != nil {
			return err
		}

		user, err := p.userRepo.GetForUpdate(ctx, scope, token.UserID)
		if err != nil {
			if errors.Is(err, authDomain.ErrUserNotFound) {
				return authDomain.ErrResetTokenInvalid
			}
			return err
		}

		return p.replacePassword(ctx, scope, user, hash, now)
	})
}

func (p *passwordResetUseCase) AdminReset(
	ctx context.Context,
	principal *authDomain.Principal,
	userID uuid.UUID,
) (*authDomain.AdminResetOutput, error) {
	if !principal.IsAdmin() {
		return nil, authDomain.ErrAdminRequired
	}
	if err := p.guard.Enforce(ctx, p.policies.AdminPasswordReset, principal.UserID.String()); err != nil {
		return nil, err
	}

	scope, err := database.NewScope(principal.TenantID)
	if err != nil {
		return nil, err
	}

	var output *authDomain.AdminResetOutput
	err = p.txManager.WithTx(ctx, func(ctx context.Context) error {
		user, err := p.userRepo.GetForUpdate(ctx, scope, userID)
		if err != nil {
			return err
		}

		plain, hash, err := p.passwordService.GenerateTemporary()
		if err != nil {
			return err
		}

		if err := p.replacePassword(ctx, scope, user, hash, p.now()); err != nil {
			return err
		}

		output = &authDomain.AdminResetOutput{UserID: user.ID, TemporaryPassword: plain}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// replacePassword stores the new hash, clears any lockout and signs the user out
// of every session.
func (p *passwordResetUseCase) replacePassword(
	ctx context.Context,
	scope database.Scope,
	user *authDomain.User,
	hash string,
	now time.Time,
) error {
	user.PasswordHash = hash
	user.SessionVersion++
	user.FailedAttempts = 0
	user.LockedUntil = nil
	user.UpdatedAt = now

	if err := p.userRepo.Update(ctx, scope, user); err != nil {
		return err
	}
	_, err := p.sessionRepo.RevokeAllForUser(ctx, scope, user.ID, now)
	return err
}
