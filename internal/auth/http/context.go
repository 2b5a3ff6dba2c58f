// Package http provides the request gate, authentication middleware and HTTP handlers
// for sessions, password resets and user administration.
package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/httputil"
)

// principalKey is a context key type for storing the authenticated principal.
type principalKey struct{}

// WithPrincipal stores the authenticated principal in the context.
// This is called by the authentication middleware after the session is validated.
func WithPrincipal(ctx context.Context, principal *authDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (principal, true) if present, or (nil, false) if the request is anonymous.
func GetPrincipal(ctx context.Context) (*authDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*authDomain.Principal)
	return principal, ok && principal != nil
}

// RequirePrincipal returns the principal of the request or writes a 401 response.
// Handlers return immediately when ok is false.
func RequirePrincipal(c *gin.Context, logger *slog.Logger) (*authDomain.Principal, bool) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		return nil, false
	}
	return principal, true
}
