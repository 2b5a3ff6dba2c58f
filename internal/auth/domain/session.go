package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side login. Only the SHA-256 hash of its token is stored.
type Session struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	UserID         uuid.UUID
	TokenHash      string
	SessionVersion int
	ExpiresAt      time.Time
	RevokedAt      *time.Time
	CreatedAt      time.Time
}

// IsUsable reports whether the session is neither revoked nor expired at now.
func (s *Session) IsUsable(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// PasswordResetToken is a single-use password reset grant.
type PasswordResetToken struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// IsUsable reports whether the token is unused and unexpired at now.
func (t *PasswordResetToken) IsUsable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}

// LoginInput contains the credentials submitted to sign in.
type LoginInput struct {
	TenantSlug string
	Email      string
	Password   string
	RemoteAddr string
}

// LoginOutput is returned on a successful login. Token is shown once.
type LoginOutput struct {
	Token     string
	ExpiresAt time.Time
	Principal *Principal
}

// PasswordResetRequest asks for a reset link for an account.
type PasswordResetRequest struct {
	TenantSlug string
	Email      string
	RemoteAddr string
}

// PasswordResetConfirm completes a reset.
type PasswordResetConfirm struct {
	Token       string
	NewPassword string
	RemoteAddr  string
}

// AdminResetOutput carries the temporary password issued by an administrator.
type AdminResetOutput struct {
	UserID            uuid.UUID
	TemporaryPassword string
}
