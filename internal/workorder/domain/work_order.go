// Package domain defines work orders: units of repair work carried out by a
// technician on a bus, optionally on behalf of a service case.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/errors"
)

// Status is the lifecycle state of a work order.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusOpen:       {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDone, StatusCancelled},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanTransitionTo reports whether a work order in state s may move to next.
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
	return []string{string(StatusOpen), string(StatusInProgress), string(StatusDone), string(StatusCancelled)}
}

// ActiveStatuses are the non-terminal states.
func ActiveStatuses() []Status {
	return []Status{StatusOpen, StatusInProgress}
}

// WorkOrder is a piece of repair work on a bus.
type WorkOrder struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	CaseID       *uuid.UUID
	BusID        uuid.UUID
	Title        string
	Description  string
	Status       Status
	TechnicianID *uuid.UUID
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AssignedTo reports whether the work order is assigned to the given user.
func (w *WorkOrder) AssignedTo(userID uuid.UUID) bool {
	return w.TechnicianID != nil && *w.TechnicianID == userID
}

// CreateWorkOrderInput contains the parameters for opening a work order. BusID may
// be left empty when CaseID is set; the case's bus is used then.
type CreateWorkOrderInput struct {
	CaseID       *uuid.UUID
	BusID        uuid.UUID
	Title        string
	Description  string
	TechnicianID *uuid.UUID
}

// ListFilter narrows a work order listing.
type ListFilter struct {
	Status       Status
	CaseID       *uuid.UUID
	TechnicianID *uuid.UUID
	Offset       int
	Limit        int
}

// Work order errors.
var (
	// ErrWorkOrderNotFound indicates the work order does not exist or is not visible
	// to the caller.
	ErrWorkOrderNotFound = errors.Wrap(errors.ErrNotFound, "work order not found")

	// ErrActiveWorkOrderExists indicates the case already has an open or in-progress
	// work order.
	ErrActiveWorkOrderExists = errors.Wrap(errors.ErrConflict, "case already has an active work order")

	// ErrInvalidTransition indicates a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.Wrap(errors.ErrConflict, "invalid work order status transition")

	// ErrInvalidTechnician indicates the assignee is not an active technician of the tenant.
	ErrInvalidTechnician = errors.Wrap(errors.ErrInvalidInput, "assignee must be an active technician of the tenant")

	// ErrBusMismatch indicates the bus differs from the bus of the referenced case.
	ErrBusMismatch = errors.Wrap(errors.ErrInvalidInput, "bus does not match the case")

	// ErrUnknownReference indicates the referenced bus or case does not exist in the tenant.
	ErrUnknownReference = errors.Wrap(errors.ErrInvalidInput, "referenced bus or case does not exist")
)
