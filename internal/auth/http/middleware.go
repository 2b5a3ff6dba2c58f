package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	authService "github.com/capitaldesk/desk/internal/auth/service"
	authUseCase "github.com/capitaldesk/desk/internal/auth/usecase"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/httputil"
)

const bearerPrefix = "bearer "

// wantsHTML reports whether the request comes from a browser navigating pages rather
// than an API client.
func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

// sessionToken extracts the plain session token from the Authorization header or the
// session cookie. The header wins when both are present.
func sessionToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			return ""
		}
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// AuthenticationMiddleware resolves the principal from the session cookie or a Bearer
// token and stores it in the request context.
//
// Public paths are served without a principal. Any other request without a valid
// session gets 401 JSON, or a redirect to /login when a browser asked for HTML.
func AuthenticationMiddleware(
	sessionUseCase authUseCase.SessionUseCase,
	tokenService authService.TokenService,
	cookieName string,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		plainToken := sessionToken(c, cookieName)
		if plainToken == "" {
			if authDomain.IsPublicPath(path) {
				c.Next()
				return
			}
			logger.Debug("authentication failed: no session", slog.String("path", path))
			deny(c, apperrors.ErrUnauthorized, "/login", logger)
			return
		}

		principal, err := sessionUseCase.Authenticate(c.Request.Context(), tokenService.HashToken(plainToken))
		if err != nil {
			if authDomain.IsPublicPath(path) && apperrors.Is(err, apperrors.ErrUnauthorized) {
				c.Next()
				return
			}
			logger.Debug("authentication failed", slog.String("path", path), slog.Any("error", err))
			deny(c, err, "/login", logger)
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// RequestGate applies the route table to authenticated requests. It must run after
// AuthenticationMiddleware. Denied requests get 403 JSON, or a redirect to / for
// browsers.
func RequestGate(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			if authDomain.IsPublicPath(path) {
				c.Next()
				return
			}
			deny(c, apperrors.ErrUnauthorized, "/login", logger)
			return
		}

		if err := authDomain.AuthorizePath(principal, path); err != nil {
			logger.Debug("request denied by route table",
				slog.String("user_id", principal.UserID.String()),
				slog.String("role", string(principal.Role)),
				slog.String("path", path))
			deny(c, err, "/", logger)
			return
		}

		c.Next()
	}
}

// RequireCapability rejects principals for which pred does not hold.
func RequireCapability(pred authDomain.Predicate, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		if !principal.Can(pred) {
			httputil.HandleErrorGin(c, apperrors.ErrCapabilityDenied, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole rejects principals whose role is not in roles.
func RequireRole(logger *slog.Logger, roles ...authDomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		if !principal.HasRole(roles...) {
			httputil.HandleErrorGin(c, apperrors.ErrRoleDenied, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}

// deny aborts the request. Browsers are redirected to location; API clients get the
// JSON error.
func deny(c *gin.Context, err error, location string, logger *slog.Logger) {
	if wantsHTML(c) && (apperrors.Is(err, apperrors.ErrUnauthorized) || apperrors.Is(err, apperrors.ErrForbidden)) {
		c.Redirect(http.StatusFound, location)
		c.Abort()
		return
	}
	httputil.HandleErrorGin(c, err, logger)
	c.Abort()
}
