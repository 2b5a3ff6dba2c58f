// Package dto provides data transfer objects for the STS endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/capitaldesk/desk/internal/sts/domain"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// CreateTicketRequest contains the parameters for raising a ticket.
type CreateTicketRequest struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// Validate checks if the create ticket request is valid.
func (r *CreateTicketRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Subject, validation.Required, customValidation.NotBlank, validation.Length(1, 200)),
		validation.Field(&r.Body, validation.Length(0, 8000)),
		validation.Field(&r.Category, customValidation.Slug, validation.Length(0, 64)),
		validation.Field(&r.Priority, customValidation.OneOf(domain.PriorityNames()...)),
	)
}

// ToInput converts the request into the domain input.
func (r *CreateTicketRequest) ToInput() *domain.CreateTicketInput {
	return &domain.CreateTicketInput{
		Subject:  r.Subject,
		Body:     r.Body,
		Category: r.Category,
		Priority: domain.Priority(r.Priority),
	}
}

// UpdateTicketRequest contains the editable ticket fields. Omitted fields are unchanged.
type UpdateTicketRequest struct {
	Subject  *string `json:"subject"`
	Body     *string `json:"body"`
	Category *string `json:"category"`
	Priority *string `json:"priority"`
}

// Validate checks if the update ticket request is valid.
func (r *UpdateTicketRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Subject, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Body, validation.Length(0, 8000)),
		validation.Field(&r.Category, customValidation.Slug, validation.Length(0, 64)),
		validation.Field(&r.Priority, validation.NilOrNotEmpty, customValidation.OneOf(domain.PriorityNames()...)),
	)
}

// ToInput converts the request into the domain input.
func (r *UpdateTicketRequest) ToInput() *domain.UpdateTicketInput {
	input := &domain.UpdateTicketInput{Subject: r.Subject, Body: r.Body, Category: r.Category}
	if r.Priority != nil {
		priority := domain.Priority(*r.Priority)
		input.Priority = &priority
	}
	return input
}

// AssignRequest names the user a ticket is handed to.
type AssignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// Validate checks if the assign request is valid.
func (r *AssignRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AssigneeID, validation.Required, customValidation.UUID),
	)
}

// ChangeStatusRequest moves a ticket along its lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks if the status request is valid.
func (r *ChangeStatusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.Required, customValidation.OneOf(domain.WritableStatusNames()...)),
	)
}

// CreateCommentRequest contains a reply on a ticket.
type CreateCommentRequest struct {
	Body     string `json:"body"`
	Internal bool   `json:"internal"`
}

// Validate checks if the comment request is valid.
func (r *CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Body, validation.Required, customValidation.NotBlank, validation.Length(1, 8000)),
	)
}

// ToInput converts the request into the domain input.
func (r *CreateCommentRequest) ToInput() *domain.CreateCommentInput {
	return &domain.CreateCommentInput{Body: r.Body, Internal: r.Internal}
}
