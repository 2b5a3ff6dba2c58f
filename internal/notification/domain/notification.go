// Package domain defines in-app notifications delivered to individual users.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/errors"
)

// Kind classifies what a notification is about.
type Kind string

const (
	KindCaseAssigned      Kind = "case_assigned"
	KindWorkOrderAssigned Kind = "work_order_assigned"
	KindTicketAssigned    Kind = "sts_ticket_assigned"
)

// Notification is a message addressed to one user of a tenant.
type Notification struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	UserID     uuid.UUID
	Kind       Kind
	Title      string
	Body       string
	ResourceID *uuid.UUID
	ReadAt     *time.Time
	CreatedAt  time.Time
}

// IsRead reports whether the recipient has read the notification.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// CreateNotificationInput describes a notification to deliver.
type CreateNotificationInput struct {
	UserID     uuid.UUID
	Kind       Kind
	Title      string
	Body       string
	ResourceID *uuid.UUID
}

// ListFilter narrows a notification listing.
type ListFilter struct {
	UnreadOnly bool
	Offset     int
	Limit      int
}

// ErrNotificationNotFound indicates the notification does not exist for the caller.
var ErrNotificationNotFound = errors.Wrap(errors.ErrNotFound, "notification not found")
