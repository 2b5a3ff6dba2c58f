// Package dto provides data transfer objects for the work order endpoints.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/capitaldesk/desk/internal/validation"
	"github.com/capitaldesk/desk/internal/workorder/domain"
)

// CreateWorkOrderRequest contains the parameters for opening a work order.
type CreateWorkOrderRequest struct {
	CaseID       string `json:"case_id"`
	BusID        string `json:"bus_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	TechnicianID string `json:"technician_id"`
}

// Validate checks if the create work order request is valid.
func (r *CreateWorkOrderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CaseID, customValidation.UUID),
		validation.Field(&r.BusID, validation.When(r.CaseID == "", validation.Required), customValidation.UUID),
		validation.Field(&r.Title, validation.Required, customValidation.NotBlank, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 4000)),
		validation.Field(&r.TechnicianID, customValidation.UUID),
	)
}

// ToInput converts the request into the domain input. Call Validate first.
func (r *CreateWorkOrderRequest) ToInput() *domain.CreateWorkOrderInput {
	input := &domain.CreateWorkOrderInput{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.BusID != "" {
		input.BusID = uuid.MustParse(r.BusID)
	}
	input.CaseID = optionalUUID(r.CaseID)
	input.TechnicianID = optionalUUID(r.TechnicianID)
	return input
}

func optionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id := uuid.MustParse(s)
	return &id
}

// AssignRequest names the technician a work order is handed to.
type AssignRequest struct {
	TechnicianID string `json:"technician_id"`
}

// Validate checks if the assign request is valid.
func (r *AssignRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TechnicianID, validation.Required, customValidation.UUID),
	)
}

// ChangeStatusRequest moves a work order along its lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks if the status request is valid.
func (r *ChangeStatusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.Required, customValidation.OneOf(domain.StatusNames()...)),
	)
}
