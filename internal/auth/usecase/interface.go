// Package usecase implements sign-in, sessions, password resets and user
// administration.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/database"
	outboxDomain "github.com/capitaldesk/desk/internal/outbox/domain"
	"github.com/capitaldesk/desk/internal/ratelimit"
	tenantDomain "github.com/capitaldesk/desk/internal/tenant/domain"
)

// UserRepository defines persistence operations for users.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	Create(ctx context.Context, scope database.Scope, user *authDomain.User) error
	Update(ctx context.Context, scope database.Scope, user *authDomain.User) error

	// Get retrieves a user by ID. Returns ErrUserNotFound if not found.
	Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*authDomain.User, error)

	// GetForUpdate is Get with the row locked for the current transaction.
	GetForUpdate(ctx context.Context, scope database.Scope, id uuid.UUID) (*authDomain.User, error)

	GetByEmail(ctx context.Context, scope database.Scope, email string) (*authDomain.User, error)
	List(ctx context.Context, scope database.Scope, filter authDomain.UserListFilter) ([]*authDomain.User, error)
}

// SessionRepository defines persistence operations for login sessions.
type SessionRepository interface {
	Create(ctx context.Context, scope database.Scope, session *authDomain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Session, error)
	Revoke(ctx context.Context, scope database.Scope, id uuid.UUID, at time.Time) error
	RevokeAllForUser(ctx context.Context, scope database.Scope, userID uuid.UUID, at time.Time) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ResetTokenRepository defines persistence operations for password reset tokens.
type ResetTokenRepository interface {
	Create(ctx context.Context, scope database.Scope, token *authDomain.PasswordResetToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.PasswordResetToken, error)
	MarkUsed(ctx context.Context, scope database.Scope, id uuid.UUID, at time.Time) error
}

// OutboxRepository stores events in the caller's transaction.
type OutboxRepository interface {
	Create(ctx context.Context, scope database.Scope, event *outboxDomain.OutboxEvent) error
}

// TenantResolver maps a tenant slug typed at sign-in to an active tenant.
type TenantResolver interface {
	ResolveActive(ctx context.Context, slug string) (*tenantDomain.Tenant, error)
}

// RateGuard counts hits against a named policy.
type RateGuard interface {
	Enforce(ctx context.Context, policy ratelimit.Policy, key string) error
}

// TokenSealer encrypts values that must leave the service through the outbox.
type TokenSealer interface {
	Seal(ctx context.Context, plaintext string) (string, error)
}

// SessionUseCase defines sign-in and session validation.
type SessionUseCase interface {
	// Login verifies credentials and opens a session.
	//
	// Unknown tenant, unknown email, inactive account and wrong password all return
	// ErrInvalidCredentials. After LockoutMaxAttempts consecutive failures the account
	// is locked for LockoutDuration and ErrAccountLocked is returned. Attempts are
	// limited per client address and per account by the login policy.
	Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error)

	// Authenticate resolves a session token hash to the request principal.
	//
	// Returns ErrSessionInvalid when the session is unknown, revoked, expired, or was
	// issued for an older SessionVersion of the user.
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.Principal, error)

	// Logout revokes the principal's current session.
	Logout(ctx context.Context, principal *authDomain.Principal) error

	// CleanExpired deletes sessions that expired before olderThan ago.
	CleanExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

// PasswordResetUseCase defines self-service and administrator password resets.
type PasswordResetUseCase interface {
	// Request issues a reset token when the account exists. The outcome is not
	// revealed to the caller: unknown accounts return nil as well.
	Request(ctx context.Context, input *authDomain.PasswordResetRequest) error

	// Confirm redeems a token, sets the new password and signs the user out everywhere.
	Confirm(ctx context.Context, input *authDomain.PasswordResetConfirm) error

	// AdminReset sets a temporary password on a user of the administrator's tenant.
	AdminReset(
		ctx context.Context,
		principal *authDomain.Principal,
		userID uuid.UUID,
	) (*authDomain.AdminResetOutput, error)
}

// UserUseCase defines user administration. Every operation except CreateInTenant
// requires an ADMIN principal and is confined to the principal's tenant.
type UserUseCase interface {
	Create(ctx context.Context, principal *authDomain.Principal, input *authDomain.CreateUserInput) (*authDomain.User, error)

	// CreateInTenant provisions a user without a principal. Used by the CLI.
	CreateInTenant(ctx context.Context, tenantID uuid.UUID, input *authDomain.CreateUserInput) (*authDomain.User, error)

	Get(ctx context.Context, principal *authDomain.Principal, userID uuid.UUID) (*authDomain.User, error)
	List(ctx context.Context, principal *authDomain.Principal, filter authDomain.UserListFilter) ([]*authDomain.User, error)

	// Update changes name, role, capabilities or active flag. Changing access bumps
	// SessionVersion so the user's open sessions stop working.
	Update(
		ctx context.Context,
		principal *authDomain.Principal,
		userID uuid.UUID,
		input *authDomain.UpdateUserInput,
	) (*authDomain.User, error)
}
