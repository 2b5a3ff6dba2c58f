// Package domain defines tenants, the transit operators sharing one deployment.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/errors"
)

// Tenant is an operator whose data is isolated from every other tenant.
type Tenant struct {
	ID        uuid.UUID
	Slug      string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateTenantInput contains the parameters for creating a tenant.
type CreateTenantInput struct {
	Slug string
	Name string
}

var (
	ErrTenantNotFound   = errors.Wrap(errors.ErrNotFound, "tenant not found")
	ErrTenantSlugExists = errors.Wrap(errors.ErrConflict, "tenant slug already exists")
)
