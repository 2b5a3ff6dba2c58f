package domain

import (
	"github.com/capitaldesk/desk/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrUserNotFound indicates a user with the specified ID was not found.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrSessionNotFound indicates no session matches the presented token.
	ErrSessionNotFound = errors.Wrap(errors.ErrNotFound, "session not found")

	// ErrResetTokenNotFound indicates no reset token matches the presented value.
	ErrResetTokenNotFound = errors.Wrap(errors.ErrNotFound, "password reset token not found")

	// ErrEmailAlreadyExists indicates the email is already registered in the tenant.
	ErrEmailAlreadyExists = errors.Wrap(errors.ErrConflict, "email already registered")

	// ErrInvalidCredentials covers unknown tenant, unknown email and wrong password alike.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrSessionInvalid indicates an expired, revoked or outdated session.
	ErrSessionInvalid = errors.Wrap(errors.ErrUnauthorized, "session is no longer valid")

	// ErrResetTokenInvalid indicates an expired, used or unknown reset token.
	ErrResetTokenInvalid = errors.Wrap(errors.ErrInvalidInput, "password reset token is invalid or expired")

	// ErrAccountLocked indicates too many failed logins.
	ErrAccountLocked = errors.Wrap(errors.ErrLocked, "account is locked")

	// ErrAdminRequired indicates the operation is reserved to administrators.
	ErrAdminRequired = errors.Wrap(errors.ErrRoleDenied, "administrator required")

	// ErrSelfDemotion indicates an administrator tried to remove their own access.
	ErrSelfDemotion = errors.Wrap(errors.ErrConflict, "cannot remove own administrator access")
)
