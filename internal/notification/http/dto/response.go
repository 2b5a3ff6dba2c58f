// Package dto provides data transfer objects for notification endpoints.
package dto

import (
	"time"

	"github.com/capitaldesk/desk/internal/notification/domain"
)

// NotificationResponse represents a notification in API responses.
type NotificationResponse struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Title      string     `json:"title"`
	Body       string     `json:"body,omitempty"`
	ResourceID *string    `json:"resource_id,omitempty"`
	Read       bool       `json:"read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// MapNotificationToResponse converts a domain notification to an API response.
func MapNotificationToResponse(n *domain.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Kind:      string(n.Kind),
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.IsRead(),
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if n.ResourceID != nil {
		id := n.ResourceID.String()
		resp.ResourceID = &id
	}
	return resp
}

// ListNotificationsResponse is a page of notifications.
type ListNotificationsResponse struct {
	Data []NotificationResponse `json:"data"`
}

// MapNotificationsToListResponse converts domain notifications to a list response.
func MapNotificationsToListResponse(notifications []*domain.Notification) ListNotificationsResponse {
	data := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		data = append(data, MapNotificationToResponse(n))
	}
	return ListNotificationsResponse{Data: data}
}

// UnreadCountResponse carries the unread badge count.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

// MarkAllReadResponse reports how many notifications were marked read.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
