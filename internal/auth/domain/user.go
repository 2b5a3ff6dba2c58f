package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a tenant member able to sign in.
type User struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	Email          string
	Name           string
	PasswordHash   string
	Role           Role
	Capabilities   Capabilities
	SessionVersion int
	IsActive       bool
	FailedAttempts int
	LockedUntil    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsLocked reports whether the account is locked at now.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// Principal builds the request principal for the user.
func (u *User) Principal(sessionID uuid.UUID) *Principal {
	return &Principal{
		UserID:         u.ID,
		TenantID:       u.TenantID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		Capabilities:   u.Capabilities,
		SessionVersion: u.SessionVersion,
		SessionID:      sessionID,
	}
}

// CreateUserInput contains the parameters for creating a user.
type CreateUserInput struct {
	Email        string
	Name         string
	Password     string
	Role         Role
	Capabilities Capabilities
}

// UpdateUserInput contains the mutable fields of a user. Nil fields are left unchanged.
type UpdateUserInput struct {
	Name         *string
	Role         *Role
	Capabilities *Capabilities
	IsActive     *bool
}

// ChangesAccess reports whether applying the input alters what the user may do,
// which invalidates existing sessions.
func (in UpdateUserInput) ChangesAccess() bool {
	return in.Role != nil || in.Capabilities != nil || in.IsActive != nil
}

// UserListFilter narrows a user listing.
type UserListFilter struct {
	Role   Role
	Offset int
	Limit  int
}
