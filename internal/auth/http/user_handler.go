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

// UserHandler handles user administration within the caller's tenant.
type UserHandler struct {
	userUseCase authUseCase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUseCase authUseCase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// CreateHandler creates a user.
// POST /admin/users - Returns 201.
func (h *UserHandler) CreateHandler(c *gin.Context) {
	principal, ok := RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}
	input, err := req.ToInput()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Create(c.Request.Context(), principal, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUserToResponse(user))
}

// ListHandler lists users, optionally filtered by role.
// GET /admin/users?role=TECHNICIAN&offset=0&limit=50
func (h *UserHandler) ListHandler(c *gin.Context) {
	principal, ok := RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	filter := authDomain.UserListFilter{Offset: offset, Limit: limit}
	if role := c.Query("role"); role != "" {
		parsed, err := authDomain.ParseRole(role)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		filter.Role = parsed
	}

	users, err := h.userUseCase.List(c.Request.Context(), principal, filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUsersToListResponse(users))
}

// GetHandler returns one user.
// GET /admin/users/:id
func (h *UserHandler) GetHandler(c *gin.Context) {
	principal, ok := RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	userID, ok := h.parseID(c)
	if !ok {
		return
	}

	user, err := h.userUseCase.Get(c.Request.Context(), principal, userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// UpdateHandler changes name, role, capabilities or active flag. Access changes sign
// the user out everywhere.
// PATCH /admin/users/:id
func (h *UserHandler) UpdateHandler(c *gin.Context) {
	principal, ok := RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	userID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}
	input, err := req.ToInput()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Update(c.Request.Context(), principal, userID, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

func (h *UserHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid user ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// RegisterRoutes mounts user administration under /admin/users. The gate already
// restricts /admin to administrators.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, resets *PasswordResetHandler) {
	g := rg.Group("/admin/users")
	g.POST("", h.CreateHandler)
	g.GET("", h.ListHandler)
	g.GET("/:id", h.GetHandler)
	g.PATCH("/:id", h.UpdateHandler)
	g.POST("/:id/reset-password", resets.AdminResetHandler)
}
