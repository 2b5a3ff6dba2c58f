// Package http provides HTTP handlers for the shift planner.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/capitaldesk/desk/internal/auth/http"
	"github.com/capitaldesk/desk/internal/httputil"
	"github.com/capitaldesk/desk/internal/shift/domain"
	"github.com/capitaldesk/desk/internal/shift/http/dto"
	"github.com/capitaldesk/desk/internal/shift/usecase"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// ShiftHandler handles planner requests.
type ShiftHandler struct {
	shiftUseCase usecase.ShiftUseCase
	logger       *slog.Logger
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(shiftUseCase usecase.ShiftUseCase, logger *slog.Logger) *ShiftHandler {
	return &ShiftHandler{
		shiftUseCase: shiftUseCase,
		logger:       logger,
	}
}

// CreateHandler plans a shift.
// POST /planner/shifts - Returns 201.
func (h *ShiftHandler) CreateHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	shift, err := h.shiftUseCase.Create(c.Request.Context(), principal, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapShiftToResponse(shift))
}

// ListHandler returns the shifts intersecting a date range.
// GET /planner/shifts?from=2026-03-02T00:00:00Z&to=2026-03-09T00:00:00Z&technician_id=<uuid>
func (h *ShiftHandler) ListHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	var filter domain.ListFilter
	for param, dst := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
		t, err := time.Parse(time.RFC3339, c.Query(param))
		if err != nil {
			httputil.HandleValidationErrorGin(c, fmt.Errorf("%s: must be an RFC 3339 timestamp", param), h.logger)
			return
		}
		*dst = t
	}
	if raw := c.Query("technician_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid technician_id: must be a valid UUID"), h.logger)
			return
		}
		filter.TechnicianID = &id
	}

	shifts, err := h.shiftUseCase.List(c.Request.Context(), principal, filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapShiftsToListResponse(shifts))
}

// DeleteHandler removes a shift.
// DELETE /planner/shifts/:id - Returns 204.
func (h *ShiftHandler) DeleteHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid shift ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.shiftUseCase.Delete(c.Request.Context(), principal, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes mounts the planner endpoints.
func (h *ShiftHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/planner/shifts")
	g.POST("", h.CreateHandler)
	g.GET("", h.ListHandler)
	g.DELETE("/:id", h.DeleteHandler)
}
