// Package http provides HTTP handlers for the notification inbox.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/capitaldesk/desk/internal/auth/http"
	"github.com/capitaldesk/desk/internal/httputil"
	"github.com/capitaldesk/desk/internal/notification/domain"
	"github.com/capitaldesk/desk/internal/notification/http/dto"
	"github.com/capitaldesk/desk/internal/notification/usecase"
)

// NotificationHandler serves the caller's own notifications.
type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	logger              *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		logger:              logger,
	}
}

// ListHandler lists the caller's notifications.
// GET /notifications?offset=0&limit=50&unread=true
func (h *NotificationHandler) ListHandler(c *gin.Context) {
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
		UnreadOnly: c.Query("unread") == "true",
		Offset:     offset,
		Limit:      limit,
	}

	notifications, err := h.notificationUseCase.List(c.Request.Context(), principal, filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapNotificationsToListResponse(notifications))
}

// UnreadCountHandler returns the caller's unread count.
// GET /notifications/unread-count
func (h *NotificationHandler) UnreadCountHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	count, err := h.notificationUseCase.UnreadCount(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.UnreadCountResponse{Unread: count})
}

// MarkReadHandler marks one notification read.
// POST /notifications/:id/read
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid notification ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.notificationUseCase.MarkRead(c.Request.Context(), principal, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllReadHandler marks every notification of the caller read.
// POST /notifications/read-all
func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	updated, err := h.notificationUseCase.MarkAllRead(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MarkAllReadResponse{Updated: updated})
}

// RegisterRoutes mounts the notification endpoints on an authenticated group.
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/notifications")
	g.GET("", h.ListHandler)
	g.GET("/unread-count", h.UnreadCountHandler)
	g.POST("/read-all", h.MarkAllReadHandler)
	g.POST("/:id/read", h.MarkReadHandler)
}
