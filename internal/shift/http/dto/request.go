// Package dto provides data transfer objects for the planner endpoints.
package dto

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/capitaldesk/desk/internal/shift/domain"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// CreateShiftRequest contains the parameters for planning a shift. Times are RFC 3339.
type CreateShiftRequest struct {
	TechnicianID string    `json:"technician_id"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Depot        string    `json:"depot"`
	Note         string    `json:"note"`
}

// Validate checks if the create shift request is valid.
func (r *CreateShiftRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TechnicianID, validation.Required, customValidation.UUID),
		validation.Field(&r.StartsAt, validation.Required),
		validation.Field(&r.EndsAt, validation.Required, validation.Min(r.StartsAt).Exclusive().
			Error("must be after starts_at")),
		validation.Field(&r.Depot, validation.Length(0, 128)),
		validation.Field(&r.Note, validation.Length(0, 1000)),
	)
}

// ToInput converts the request into the domain input. Call Validate first.
func (r *CreateShiftRequest) ToInput() *domain.CreateShiftInput {
	return &domain.CreateShiftInput{
		TechnicianID: uuid.MustParse(r.TechnicianID),
		StartsAt:     r.StartsAt,
		EndsAt:       r.EndsAt,
		Depot:        r.Depot,
		Note:         r.Note,
	}
}
