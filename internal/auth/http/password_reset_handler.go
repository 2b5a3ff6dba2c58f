package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/auth/http/dto"
	authUseCase "github.com/capitaldesk/desk/internal/auth/usecase"
	"github.com/capitaldesk/desk/internal/httputil"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// PasswordResetHandler handles self-service and administrator password resets.
type PasswordResetHandler struct {
	resetUseCase authUseCase.PasswordResetUseCase
	logger       *slog.Logger
}

// NewPasswordResetHandler creates a new PasswordResetHandler.
func NewPasswordResetHandler(resetUseCase authUseCase.PasswordResetUseCase, logger *slog.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{
		resetUseCase: resetUseCase,
		logger:       logger,
	}
}

// RequestHandler starts a password reset.
// POST /password-reset - Public. Always 202 unless rate limited, so the response never
// reveals whether the account exists.
func (h *PasswordResetHandler) RequestHandler(c *gin.Context) {
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.resetUseCase.Request(c.Request.Context(), &authDomain.PasswordResetRequest{
		TenantSlug: req.Tenant,
		Email:      req.Email,
		RemoteAddr: c.ClientIP(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, dto.AcceptedResponse{
		Message: "If the account exists, a reset link has been sent",
	})
}

// ConfirmHandler completes a password reset.
// POST /password-reset/confirm - Public. Returns 204.
func (h *PasswordResetHandler) ConfirmHandler(c *gin.Context) {
	var req dto.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.resetUseCase.Confirm(c.Request.Context(), &authDomain.PasswordResetConfirm{
		Token:       req.Token,
		NewPassword: req.NewPassword,
		RemoteAddr:  c.ClientIP(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// AdminResetHandler issues a temporary password for a user of the caller's tenant.
// POST /admin/users/:id/reset-password - ADMIN only.
func (h *PasswordResetHandler) AdminResetHandler(c *gin.Context) {
	principal, ok := RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid user ID format: must be a valid UUID"),
			h.logger)
		return
	}

	output, err := h.resetUseCase.AdminReset(c.Request.Context(), principal, userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.AdminResetResponse{
		UserID:            output.UserID.String(),
		TemporaryPassword: output.TemporaryPassword,
	})
}

// RegisterRoutes mounts the public reset endpoints.
func (h *PasswordResetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/password-reset", h.RequestHandler)
	rg.POST("/password-reset/confirm", h.ConfirmHandler)
}
