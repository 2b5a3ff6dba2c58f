// Package dto provides data transfer objects for the case endpoints.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/capitaldesk/desk/internal/cases/domain"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// CreateCaseRequest contains the parameters for opening a case.
type CreateCaseRequest struct {
	BusID       string `json:"bus_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// Validate checks if the create case request is valid.
func (r *CreateCaseRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.BusID, validation.Required, customValidation.UUID),
		validation.Field(&r.Title, validation.Required, customValidation.NotBlank, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 4000)),
		validation.Field(&r.Priority, customValidation.OneOf(domain.PriorityNames()...)),
	)
}

// ToInput converts the request into the domain input. Call Validate first.
func (r *CreateCaseRequest) ToInput() *domain.CreateCaseInput {
	return &domain.CreateCaseInput{
		BusID:       uuid.MustParse(r.BusID),
		Title:       r.Title,
		Description: r.Description,
		Priority:    domain.Priority(r.Priority),
	}
}

// UpdateCaseRequest contains the editable case fields. Omitted fields are unchanged.
type UpdateCaseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
}

// Validate checks if the update case request is valid.
func (r *UpdateCaseRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 4000)),
		validation.Field(&r.Priority, validation.NilOrNotEmpty, customValidation.OneOf(domain.PriorityNames()...)),
	)
}

// ToInput converts the request into the domain input.
func (r *UpdateCaseRequest) ToInput() *domain.UpdateCaseInput {
	input := &domain.UpdateCaseInput{Title: r.Title, Description: r.Description}
	if r.Priority != nil {
		priority := domain.Priority(*r.Priority)
		input.Priority = &priority
	}
	return input
}

// AssignRequest names the user a record is handed to.
type AssignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// Validate checks if the assign request is valid.
func (r *AssignRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AssigneeID, validation.Required, customValidation.UUID),
	)
}

// ChangeStatusRequest moves a case along its lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks if the status request is valid.
func (r *ChangeStatusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.Required, customValidation.OneOf(domain.StatusNames()...)),
	)
}
