// Package http provides HTTP handlers for work orders.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	authHTTP "github.com/capitaldesk/desk/internal/auth/http"
	"github.com/capitaldesk/desk/internal/httputil"
	customValidation "github.com/capitaldesk/desk/internal/validation"
	"github.com/capitaldesk/desk/internal/workorder/domain"
	"github.com/capitaldesk/desk/internal/workorder/http/dto"
	"github.com/capitaldesk/desk/internal/workorder/usecase"
)

// WorkOrderHandler handles work order requests.
type WorkOrderHandler struct {
	workOrderUseCase usecase.WorkOrderUseCase
	logger           *slog.Logger
}

// NewWorkOrderHandler creates a new WorkOrderHandler.
func NewWorkOrderHandler(workOrderUseCase usecase.WorkOrderUseCase, logger *slog.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{
		workOrderUseCase: workOrderUseCase,
		logger:           logger,
	}
}

// CreateHandler opens a work order.
// POST /work-orders - Returns 201.
func (h *WorkOrderHandler) CreateHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	wo, err := h.workOrderUseCase.Create(c.Request.Context(), principal, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapWorkOrderToResponse(wo))
}

// ListHandler lists work orders. Technicians only get their own.
// GET /work-orders?status=open&case_id=<uuid>&technician_id=<uuid>&offset=0&limit=50
func (h *WorkOrderHandler) ListHandler(c *gin.Context) {
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
	for param, dst := range map[string]**uuid.UUID{
		"case_id":       &filter.CaseID,
		"technician_id": &filter.TechnicianID,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid %s: must be a valid UUID", param), h.logger)
			return
		}
		*dst = &id
	}

	workOrders, err := h.workOrderUseCase.List(c.Request.Context(), principal, filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapWorkOrdersToListResponse(workOrders))
}

// GetHandler returns one work order.
// GET /work-orders/:id
func (h *WorkOrderHandler) GetHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	wo, err := h.workOrderUseCase.Get(c.Request.Context(), principal, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapWorkOrderToResponse(wo))
}

// AssignHandler hands a work order to a technician.
// POST /work-orders/:id/assign - ADMIN only.
func (h *WorkOrderHandler) AssignHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	wo, err := h.workOrderUseCase.Assign(c.Request.Context(), principal, id, uuid.MustParse(req.TechnicianID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapWorkOrderToResponse(wo))
}

// StatusHandler moves a work order along its lifecycle.
// POST /work-orders/:id/status
func (h *WorkOrderHandler) StatusHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	wo, err := h.workOrderUseCase.ChangeStatus(c.Request.Context(), principal, id, domain.Status(req.Status))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapWorkOrderToResponse(wo))
}

func (h *WorkOrderHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid work order ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// RegisterRoutes mounts the work order endpoints.
func (h *WorkOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/work-orders")
	g.POST("", h.CreateHandler)
	g.GET("", h.ListHandler)
	g.GET("/:id", h.GetHandler)
	g.POST("/:id/assign", authHTTP.RequireRole(h.logger, authDomain.RoleAdmin), h.AssignHandler)
	g.POST("/:id/status", h.StatusHandler)
}
