package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/auth/http/dto"
	authUseCase "github.com/capitaldesk/desk/internal/auth/usecase"
	"github.com/capitaldesk/desk/internal/httputil"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// CookieConfig describes the session cookie set at login.
type CookieConfig struct {
	Name   string
	Secure bool
}

// SessionHandler handles sign-in, sign-out and the /me endpoint.
type SessionHandler struct {
	sessionUseCase authUseCase.SessionUseCase
	cookie         CookieConfig
	logger         *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	sessionUseCase authUseCase.SessionUseCase,
	cookie CookieConfig,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
		cookie:         cookie,
		logger:         logger,
	}
}

// LoginHandler signs a user in and sets the session cookie.
// POST /login - Public. Returns 200 with the token, 401 on bad credentials,
// 423 when locked and 429 when rate limited.
func (h *SessionHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.sessionUseCase.Login(c.Request.Context(), &authDomain.LoginInput{
		TenantSlug: req.Tenant,
		Email:      req.Email,
		Password:   req.Password,
		RemoteAddr: c.ClientIP(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	maxAge := int(time.Until(output.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, output.Token, maxAge, "/", "", h.cookie.Secure, true)

	c.JSON(http.StatusOK, dto.MapLoginOutputToResponse(output))
}

// LogoutHandler revokes the current session and clears the cookie.
// POST /logout - Returns 204.
func (h *SessionHandler) LogoutHandler(c *gin.Context) {
	principal, ok := RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	if err := h.sessionUseCase.Logout(c.Request.Context(), principal); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Status(http.StatusNoContent)
}

// MeHandler returns the caller and the permissions derived from role and capabilities.
// GET /me
func (h *SessionHandler) MeHandler(c *gin.Context) {
	principal, ok := RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.MapPrincipalToMeResponse(principal))
}

// RegisterRoutes mounts the session endpoints.
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.LoginHandler)
	rg.POST("/logout", h.LogoutHandler)
	rg.GET("/me", h.MeHandler)
}
