// Package http provides HTTP handlers for service cases.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	authHTTP "github.com/capitaldesk/desk/internal/auth/http"
	"github.com/capitaldesk/desk/internal/cases/domain"
	"github.com/capitaldesk/desk/internal/cases/http/dto"
	"github.com/capitaldesk/desk/internal/cases/usecase"
	"github.com/capitaldesk/desk/internal/httputil"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// CaseHandler handles service case requests.
type CaseHandler struct {
	caseUseCase usecase.CaseUseCase
	logger      *slog.Logger
}

// NewCaseHandler creates a new CaseHandler.
func NewCaseHandler(caseUseCase usecase.CaseUseCase, logger *slog.Logger) *CaseHandler {
	return &CaseHandler{
		caseUseCase: caseUseCase,
		logger:      logger,
	}
}

// CreateHandler opens a case.
// POST /cases - Returns 201.
func (h *CaseHandler) CreateHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateCaseRequest
	if !h.bind(c, &req) {
		return
	}

	out, err := h.caseUseCase.Create(c.Request.Context(), principal, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCaseToResponse(out))
}

// ListHandler lists cases, newest first.
// GET /cases?status=open&bus_id=<uuid>&offset=0&limit=50
func (h *CaseHandler) ListHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	filter := domain.ListFilter{
		Status: domain.Status(c.Query("status")),
		Offset: offset,
		Limit:  limit,
	}
	if raw := c.Query("bus_id"); raw != "" {
		busID, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid bus_id: must be a valid UUID"), h.logger)
			return
		}
		filter.BusID = &busID
	}

	cases, err := h.caseUseCase.List(c.Request.Context(), principal, filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCasesToListResponse(cases))
}

// GetHandler returns one case.
// GET /cases/:id
func (h *CaseHandler) GetHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	out, err := h.caseUseCase.Get(c.Request.Context(), principal, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCaseToResponse(out))
}

// UpdateHandler edits title, description or priority.
// PATCH /cases/:id
func (h *CaseHandler) UpdateHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateCaseRequest
	if !h.bind(c, &req) {
		return
	}

	out, err := h.caseUseCase.Update(c.Request.Context(), principal, id, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCaseToResponse(out))
}

// AssignHandler hands a case to a user.
// POST /cases/:id/assign - Requires CASE_ASSIGN or ADMIN.
func (h *CaseHandler) AssignHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.AssignRequest
	if !h.bind(c, &req) {
		return
	}

	out, err := h.caseUseCase.Assign(c.Request.Context(), principal, id, uuid.MustParse(req.AssigneeID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCaseToResponse(out))
}

// StatusHandler moves a case along its lifecycle.
// POST /cases/:id/status
func (h *CaseHandler) StatusHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if !h.bind(c, &req) {
		return
	}

	out, err := h.caseUseCase.ChangeStatus(c.Request.Context(), principal, id, domain.Status(req.Status))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCaseToResponse(out))
}

type validatable interface {
	Validate() error
}

func (h *CaseHandler) bind(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return false
	}
	return true
}

func (h *CaseHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid case ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// RegisterRoutes mounts the case endpoints.
func (h *CaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/cases")
	g.POST("", h.CreateHandler)
	g.GET("", h.ListHandler)
	g.GET("/:id", h.GetHandler)
	g.PATCH("/:id", h.UpdateHandler)
	g.POST("/:id/assign", authHTTP.RequireCapability(authDomain.CanAssignCases, h.logger), h.AssignHandler)
	g.POST("/:id/status", h.StatusHandler)
}
