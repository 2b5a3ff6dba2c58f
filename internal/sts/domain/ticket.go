// Package domain defines STS tickets: help-desk requests raised by staff and worked
// by the back office.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/errors"
)

// Priority ranks a ticket.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// PriorityNames returns the priority names, for validation rules.
func PriorityNames() []string {
	return []string{string(PriorityLow), string(PriorityNormal), string(PriorityHigh), string(PriorityUrgent)}
}

// Status is the lifecycle state of a ticket.
type Status string

const (
	StatusNew     Status = "new"
	StatusOpen    Status = "open"
	StatusPending Status = "pending"
	StatusSolved  Status = "solved"
	StatusClosed  Status = "closed"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{StatusNew, StatusOpen, StatusPending, StatusSolved, StatusClosed}

// transitions lists the states a writer may move a ticket to. Closing is an
// administrative action and is not part of this table.
var transitions = map[Status][]Status{
	StatusNew:     {StatusOpen, StatusPending, StatusSolved},
	StatusOpen:    {StatusPending, StatusSolved},
	StatusPending: {StatusOpen, StatusSolved},
	StatusSolved:  {StatusOpen},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether a ticket in state s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusNames returns the status names, for validation rules.
func StatusNames() []string {
	names := make([]string, 0, len(AllStatuses))
	for _, s := range AllStatuses {
		names = append(names, string(s))
	}
	return names
}

// WritableStatusNames returns the statuses reachable through a status change.
func WritableStatusNames() []string {
	return []string{string(StatusOpen), string(StatusPending), string(StatusSolved)}
}

// Ticket is an STS help-desk ticket.
type Ticket struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Subject    string
	Body       string
	Category   string
	Priority   Priority
	Status     Status
	CreatedBy  uuid.UUID
	AssigneeID *uuid.UUID
	ClosedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsClosed reports whether the ticket was closed by an administrator.
func (t *Ticket) IsClosed() bool {
	return t.Status == StatusClosed
}

// Comment is a reply on a ticket. Internal comments are only shown to writers.
type Comment struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	TicketID  uuid.UUID
	AuthorID  uuid.UUID
	Body      string
	Internal  bool
	CreatedAt time.Time
}

// Summary counts the tickets of a tenant per status. Every status is present.
type Summary struct {
	Counts map[Status]int
	Total  int
}

// NewSummary builds a summary with every status zeroed.
func NewSummary() *Summary {
	counts := make(map[Status]int, len(AllStatuses))
	for _, s := range AllStatuses {
		counts[s] = 0
	}
	return &Summary{Counts: counts}
}

// Add records n tickets in status s.
func (s *Summary) Add(status Status, n int) {
	s.Counts[status] += n
	s.Total += n
}

// CreateTicketInput contains the parameters for raising a ticket.
type CreateTicketInput struct {
	Subject  string
	Body     string
	Category string
	Priority Priority
}

// UpdateTicketInput contains the editable ticket fields. Nil fields are left unchanged.
type UpdateTicketInput struct {
	Subject  *string
	Body     *string
	Category *string
	Priority *Priority
}

// CreateCommentInput contains the parameters for commenting on a ticket.
type CreateCommentInput struct {
	Body     string
	Internal bool
}

// ListFilter narrows a ticket listing.
type ListFilter struct {
	Status     Status
	Category   string
	AssigneeID *uuid.UUID
	Offset     int
	Limit      int
}

// Ticket errors.
var (
	// ErrTicketNotFound indicates the ticket does not exist in the tenant.
	ErrTicketNotFound = errors.Wrap(errors.ErrNotFound, "ticket not found")

	// ErrTicketClosed indicates a change to a closed ticket.
	ErrTicketClosed = errors.Wrap(errors.ErrConflict, "ticket is closed")

	// ErrInvalidTransition indicates a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.Wrap(errors.ErrConflict, "invalid ticket status transition")

	// ErrInvalidAssignee indicates the assignee cannot work STS tickets.
	ErrInvalidAssignee = errors.Wrap(errors.ErrInvalidInput, "assignee must be an active user with STS write access")

	// ErrSectionDenied indicates the caller cannot open the STS section.
	ErrSectionDenied = errors.Wrap(errors.ErrCapabilityDenied, "STS section access denied")

	// ErrReadDenied indicates the caller lacks STS read access.
	ErrReadDenied = errors.Wrap(errors.ErrCapabilityDenied, "STS read access required")

	// ErrWriteDenied indicates the caller lacks STS write access.
	ErrWriteDenied = errors.Wrap(errors.ErrCapabilityDenied, "STS write access required")

	// ErrAdminDenied indicates the caller lacks STS admin access.
	ErrAdminDenied = errors.Wrap(errors.ErrCapabilityDenied, "STS admin access required")
)
