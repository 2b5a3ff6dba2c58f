// Package http provides HTTP handlers for STS ticketing.
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
	"github.com/capitaldesk/desk/internal/sts/domain"
	"github.com/capitaldesk/desk/internal/sts/http/dto"
	"github.com/capitaldesk/desk/internal/sts/usecase"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// StsHandler handles STS ticketing requests.
type StsHandler struct {
	stsUseCase usecase.StsUseCase
	logger     *slog.Logger
}

// NewStsHandler creates a new StsHandler.
func NewStsHandler(stsUseCase usecase.StsUseCase, logger *slog.Logger) *StsHandler {
	return &StsHandler{
		stsUseCase: stsUseCase,
		logger:     logger,
	}
}

// SummaryHandler counts tickets per status.
// GET /sts/summary
func (h *StsHandler) SummaryHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	summary, err := h.stsUseCase.Summary(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSummaryToResponse(summary))
}

// CreateTicketHandler raises a ticket.
// POST /sts/tickets - Returns 201.
func (h *StsHandler) CreateTicketHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateTicketRequest
	if !h.bind(c, &req) {
		return
	}

	ticket, err := h.stsUseCase.CreateTicket(c.Request.Context(), principal, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTicketToResponse(ticket))
}

// ListTicketsHandler lists tickets, newest first.
// GET /sts/tickets?status=open&category=it&assignee_id=<uuid>&offset=0&limit=50
func (h *StsHandler) ListTicketsHandler(c *gin.Context) {
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
		Status:   domain.Status(c.Query("status")),
		Category: c.Query("category"),
		Offset:   offset,
		Limit:    limit,
	}
	if raw := c.Query("assignee_id"); raw != "" {
		assigneeID, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid assignee_id: must be a valid UUID"), h.logger)
			return
		}
		filter.AssigneeID = &assigneeID
	}

	tickets, err := h.stsUseCase.ListTickets(c.Request.Context(), principal, filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTicketsToListResponse(tickets))
}

// GetTicketHandler returns one ticket.
// GET /sts/tickets/:id
func (h *StsHandler) GetTicketHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	ticket, err := h.stsUseCase.GetTicket(c.Request.Context(), principal, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTicketToResponse(ticket))
}

// UpdateTicketHandler edits a ticket.
// PATCH /sts/tickets/:id
func (h *StsHandler) UpdateTicketHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateTicketRequest
	if !h.bind(c, &req) {
		return
	}

	ticket, err := h.stsUseCase.UpdateTicket(c.Request.Context(), principal, id, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTicketToResponse(ticket))
}

// AssignTicketHandler hands a ticket to a user.
// POST /sts/tickets/:id/assign
func (h *StsHandler) AssignTicketHandler(c *gin.Context) {
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

	ticket, err := h.stsUseCase.AssignTicket(c.Request.Context(), principal, id, uuid.MustParse(req.AssigneeID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTicketToResponse(ticket))
}

// StatusHandler moves a ticket along its lifecycle.
// POST /sts/tickets/:id/status
func (h *StsHandler) StatusHandler(c *gin.Context) {
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

	ticket, err := h.stsUseCase.ChangeStatus(c.Request.Context(), principal, id, domain.Status(req.Status))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTicketToResponse(ticket))
}

// CloseTicketHandler closes a ticket for good.
// POST /sts/tickets/:id/close - Requires STS admin.
func (h *StsHandler) CloseTicketHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	ticket, err := h.stsUseCase.CloseTicket(c.Request.Context(), principal, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTicketToResponse(ticket))
}

// DeleteTicketHandler removes a ticket and its comments.
// DELETE /sts/tickets/:id - Requires STS admin. Returns 204.
func (h *StsHandler) DeleteTicketHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.stsUseCase.DeleteTicket(c.Request.Context(), principal, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddCommentHandler replies on a ticket.
// POST /sts/tickets/:id/comments - Returns 201.
func (h *StsHandler) AddCommentHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !h.bind(c, &req) {
		return
	}

	comment, err := h.stsUseCase.AddComment(c.Request.Context(), principal, id, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCommentToResponse(comment))
}

// ListCommentsHandler returns the comments of a ticket.
// GET /sts/tickets/:id/comments
func (h *StsHandler) ListCommentsHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	comments, err := h.stsUseCase.ListComments(c.Request.Context(), principal, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCommentsToListResponse(comments))
}

type validatable interface {
	Validate() error
}

func (h *StsHandler) bind(c *gin.Context, req validatable) bool {
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

func (h *StsHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid ticket ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// RegisterRoutes mounts the STS endpoints. The request gate already applied the
// section check; each route adds the finer read, write or admin check.
func (h *StsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	read := authHTTP.RequireCapability(authDomain.CanStsRead, h.logger)
	write := authHTTP.RequireCapability(authDomain.CanStsWrite, h.logger)
	admin := authHTTP.RequireCapability(authDomain.CanStsAdmin, h.logger)

	g := rg.Group("/sts")
	g.GET("/summary", h.SummaryHandler)

	tickets := g.Group("/tickets")
	tickets.GET("", read, h.ListTicketsHandler)
	tickets.POST("", write, h.CreateTicketHandler)
	tickets.GET("/:id", read, h.GetTicketHandler)
	tickets.PATCH("/:id", write, h.UpdateTicketHandler)
	tickets.DELETE("/:id", admin, h.DeleteTicketHandler)
	tickets.POST("/:id/assign", write, h.AssignTicketHandler)
	tickets.POST("/:id/status", write, h.StatusHandler)
	tickets.POST("/:id/close", admin, h.CloseTicketHandler)
	tickets.GET("/:id/comments", read, h.ListCommentsHandler)
	tickets.POST("/:id/comments", write, h.AddCommentHandler)
}
