// Package http provides HTTP handlers for the fleet.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	authHTTP "github.com/capitaldesk/desk/internal/auth/http"
	"github.com/capitaldesk/desk/internal/fleet/domain"
	"github.com/capitaldesk/desk/internal/fleet/http/dto"
	"github.com/capitaldesk/desk/internal/fleet/usecase"
	"github.com/capitaldesk/desk/internal/httputil"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// BusHandler handles fleet requests.
type BusHandler struct {
	busUseCase usecase.BusUseCase
	logger     *slog.Logger
}

// NewBusHandler creates a new BusHandler.
func NewBusHandler(busUseCase usecase.BusUseCase, logger *slog.Logger) *BusHandler {
	return &BusHandler{
		busUseCase: busUseCase,
		logger:     logger,
	}
}

// CreateHandler registers a bus.
// POST /buses - ADMIN or BACKOFFICE. Returns 201.
func (h *BusHandler) CreateHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	bus, err := h.busUseCase.Create(c.Request.Context(), principal, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapBusToResponse(bus))
}

// ListHandler lists buses.
// GET /buses?status=active&depot=North&offset=0&limit=50
func (h *BusHandler) ListHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	buses, err := h.busUseCase.List(c.Request.Context(), principal, domain.ListFilter{
		Status: domain.BusStatus(c.Query("status")),
		Depot:  c.Query("depot"),
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBusesToListResponse(buses))
}

// GetHandler returns one bus.
// GET /buses/:id
func (h *BusHandler) GetHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	bus, err := h.busUseCase.Get(c.Request.Context(), principal, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBusToResponse(bus))
}

// UpdateHandler changes plate, model, depot or status.
// PATCH /buses/:id - ADMIN or BACKOFFICE.
func (h *BusHandler) UpdateHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	bus, err := h.busUseCase.Update(c.Request.Context(), principal, id, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBusToResponse(bus))
}

// RetireHandler takes a bus out of the fleet.
// POST /buses/:id/retire - ADMIN or BACKOFFICE.
func (h *BusHandler) RetireHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	bus, err := h.busUseCase.Retire(c.Request.Context(), principal, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBusToResponse(bus))
}

func (h *BusHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid bus ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// RegisterRoutes mounts the fleet endpoints. Writes are limited to ADMIN and
// BACKOFFICE on top of the /buses gate.
func (h *BusHandler) RegisterRoutes(rg *gin.RouterGroup) {
	manage := authHTTP.RequireRole(h.logger, authDomain.RoleAdmin, authDomain.RoleBackoffice)

	g := rg.Group("/buses")
	g.GET("", h.ListHandler)
	g.GET("/:id", h.GetHandler)
	g.POST("", manage, h.CreateHandler)
	g.PATCH("/:id", manage, h.UpdateHandler)
	g.POST("/:id/retire", manage, h.RetireHandler)
}
