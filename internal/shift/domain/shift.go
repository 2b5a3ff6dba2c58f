// Package domain defines technician shifts managed in the planner.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/errors"
)

// MaxShiftLength bounds a single shift.
const MaxShiftLength = 24 * time.Hour

// Shift is a block of time a technician is on duty at a depot.
type Shift struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	TechnicianID uuid.UUID
	StartsAt     time.Time
	EndsAt       time.Time
	Depot        string
	Note         string
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Overlaps reports whether the half-open intervals [s.StartsAt, s.EndsAt) and
// [from, to) intersect.
func (s *Shift) Overlaps(from, to time.Time) bool {
	return s.StartsAt.Before(to) && s.EndsAt.After(from)
}

// CreateShiftInput contains the parameters for planning a shift.
type CreateShiftInput struct {
	TechnicianID uuid.UUID
	StartsAt     time.Time
	EndsAt       time.Time
	Depot        string
	Note         string
}

// ListFilter selects the shifts intersecting [From, To).
type ListFilter struct {
	From         time.Time
	To           time.Time
	TechnicianID *uuid.UUID
}

// Shift errors.
var (
	// ErrShiftNotFound indicates the shift does not exist in the tenant.
	ErrShiftNotFound = errors.Wrap(errors.ErrNotFound, "shift not found")

	// ErrShiftOverlap indicates the technician already has a shift in that time.
	ErrShiftOverlap = errors.Wrap(errors.ErrConflict, "technician already has an overlapping shift")

	// ErrInvalidRange indicates an end time that is not after the start time.
	ErrInvalidRange = errors.Wrap(errors.ErrInvalidInput, "end must be after start")

	// ErrShiftTooLong indicates a shift longer than MaxShiftLength.
	ErrShiftTooLong = errors.Wrap(errors.ErrInvalidInput, "shift exceeds 24 hours")

	// ErrInvalidTechnician indicates the user is not an active technician of the tenant.
	ErrInvalidTechnician = errors.Wrap(errors.ErrInvalidInput, "shifts can only be planned for active technicians")
)
