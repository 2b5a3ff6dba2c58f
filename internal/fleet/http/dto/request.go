// Package dto provides data transfer objects for the fleet endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/capitaldesk/desk/internal/fleet/domain"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// CreateBusRequest contains the parameters for registering a bus.
type CreateBusRequest struct {
	FleetNumber string `json:"fleet_number"`
	Plate       string `json:"plate"`
	Model       string `json:"model"`
	Depot       string `json:"depot"`
}

// Validate checks if the create bus request is valid.
func (r *CreateBusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FleetNumber, validation.Required, customValidation.FleetNumber),
		validation.Field(&r.Plate, validation.Required, customValidation.NotBlank, validation.Length(1, 32)),
		validation.Field(&r.Model, validation.Length(0, 128)),
		validation.Field(&r.Depot, validation.Length(0, 128)),
	)
}

// ToInput converts the request into the domain input.
func (r *CreateBusRequest) ToInput() *domain.CreateBusInput {
	return &domain.CreateBusInput{
		FleetNumber: r.FleetNumber,
		Plate:       r.Plate,
		Model:       r.Model,
		Depot:       r.Depot,
	}
}

// UpdateBusRequest contains the mutable bus fields. Omitted fields are unchanged.
type UpdateBusRequest struct {
	Plate  *string `json:"plate"`
	Model  *string `json:"model"`
	Depot  *string `json:"depot"`
	Status *string `json:"status"`
}

// Validate checks if the update bus request is valid.
func (r *UpdateBusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plate, validation.NilOrNotEmpty, validation.Length(1, 32)),
		validation.Field(&r.Model, validation.Length(0, 128)),
		validation.Field(&r.Depot, validation.Length(0, 128)),
		validation.Field(&r.Status, validation.NilOrNotEmpty, customValidation.OneOf(domain.BusStatusNames()...)),
	)
}

// ToInput converts the request into the domain input.
func (r *UpdateBusRequest) ToInput() *domain.UpdateBusInput {
	input := &domain.UpdateBusInput{
		Plate: r.Plate,
		Model: r.Model,
		Depot: r.Depot,
	}
	if r.Status != nil {
		status := domain.BusStatus(*r.Status)
		input.Status = &status
	}
	return input
}
