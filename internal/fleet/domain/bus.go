// Package domain defines the fleet model: buses and their service status.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/errors"
)

// BusStatus is the service state of a bus.
type BusStatus string

const (
	BusStatusActive    BusStatus = "active"
	BusStatusInService BusStatus = "in_service"
	BusStatusRetired   BusStatus = "retired"
)

// Valid reports whether s is a known status.
func (s BusStatus) Valid() bool {
	switch s {
	case BusStatusActive, BusStatusInService, BusStatusRetired:
		return true
	}
	return false
}

// BusStatusNames returns the status names, for validation rules.
func BusStatusNames() []string {
	return []string{string(BusStatusActive), string(BusStatusInService), string(BusStatusRetired)}
}

// Bus is a vehicle of the tenant's fleet. FleetNumber is unique within the tenant.
type Bus struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	FleetNumber string
	Plate       string
	Model       string
	Depot       string
	Status      BusStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRetired reports whether the bus has left the fleet.
func (b *Bus) IsRetired() bool {
	return b.Status == BusStatusRetired
}

// CreateBusInput contains the parameters for registering a bus.
type CreateBusInput struct {
	FleetNumber string
	Plate       string
	Model       string
	Depot       string
}

// UpdateBusInput contains the mutable bus fields. Nil fields are left unchanged.
type UpdateBusInput struct {
	Plate  *string
	Model  *string
	Depot  *string
	Status *BusStatus
}

// ListFilter narrows a bus listing.
type ListFilter struct {
	Status BusStatus
	Depot  string
	Offset int
	Limit  int
}

// Fleet errors.
var (
	// ErrBusNotFound indicates the bus does not exist in the tenant.
	ErrBusNotFound = errors.Wrap(errors.ErrNotFound, "bus not found")

	// ErrFleetNumberExists indicates another bus of the tenant uses the fleet number.
	ErrFleetNumberExists = errors.Wrap(errors.ErrConflict, "fleet number already in use")

	// ErrBusRetired indicates a change to a bus that has been retired.
	ErrBusRetired = errors.Wrap(errors.ErrConflict, "bus is retired")
)
