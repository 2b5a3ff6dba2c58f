// Package domain defines service cases: problems reported against a bus and tracked
// until they are resolved and closed.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/errors"
)

// Priority ranks how urgently a case needs attention.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// PriorityNames returns the priority names, for validation rules.
func PriorityNames() []string {
	return []string{string(PriorityLow), string(PriorityNormal), string(PriorityHigh), string(PriorityCritical)}
}

// Status is the lifecycle state of a case.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// transitions lists the states reachable from each state.
var transitions = map[Status][]Status{
	StatusOpen:       {StatusInProgress},
	StatusInProgress: {StatusResolved},
	StatusResolved:   {StatusClosed, StatusOpen},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// CanTransitionTo reports whether a case in state s may move to next.
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
	return []string{string(StatusOpen), string(StatusInProgress), string(StatusResolved), string(StatusClosed)}
}

// Case is a service case raised against a bus.
type Case struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	BusID       uuid.UUID
	Title       string
	Description string
	Priority    Priority
	Status      Status
	CreatedBy   uuid.UUID
	AssigneeID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsClosed reports whether the case reached its final state.
func (c *Case) IsClosed() bool {
	return c.Status == StatusClosed
}

// CreateCaseInput contains the parameters for opening a case.
type CreateCaseInput struct {
	BusID       uuid.UUID
	Title       string
	Description string
	Priority    Priority
}

// UpdateCaseInput contains the editable case fields. Nil fields are left unchanged.
type UpdateCaseInput struct {
	Title       *string
	Description *string
	Priority    *Priority
}

// ListFilter narrows a case listing.
type ListFilter struct {
	Status Status
	BusID  *uuid.UUID
	Offset int
	Limit  int
}

// Case errors.
var (
	// ErrCaseNotFound indicates the case does not exist in the tenant.
	ErrCaseNotFound = errors.Wrap(errors.ErrNotFound, "case not found")

	// ErrCaseClosed indicates a change to a closed case.
	ErrCaseClosed = errors.Wrap(errors.ErrConflict, "case is closed")

	// ErrInvalidTransition indicates a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.Wrap(errors.ErrConflict, "invalid case status transition")

	// ErrInvalidAssignee indicates the assignee is not an active user of the tenant.
	ErrInvalidAssignee = errors.Wrap(errors.ErrInvalidInput, "assignee must be an active user of the tenant")

	// ErrUnknownBus indicates the referenced bus does not exist in the tenant.
	ErrUnknownBus = errors.Wrap(errors.ErrInvalidInput, "bus does not exist")

	// ErrAssignDenied indicates the caller lacks the case assignment capability.
	ErrAssignDenied = errors.Wrap(errors.ErrCapabilityDenied, "assigning cases requires CASE_ASSIGN")
)
