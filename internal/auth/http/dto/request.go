// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// LoginRequest contains the credentials submitted to sign in.
type LoginRequest struct {
	Tenant   string `json:"tenant"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Tenant, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Email, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Password, validation.Required),
	)
}

// PasswordResetRequest asks for a reset link.
type PasswordResetRequest struct {
	Tenant string `json:"tenant"`
	Email  string `json:"email"`
}

// Validate checks if the password reset request is valid.
func (r *PasswordResetRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Tenant, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Email, validation.Required, customValidation.Email),
	)
}

// PasswordResetConfirmRequest completes a reset with the token from the reset link.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Validate checks if the confirm request is valid. Password strength is checked by
// the use case.
func (r *PasswordResetConfirmRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token, validation.Required, customValidation.NoWhitespace),
		validation.Field(&r.NewPassword, validation.Required),
	)
}

// CreateUserRequest contains the parameters for creating a user.
type CreateUserRequest struct {
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	Password     string   `json:"password"`
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
}

// Validate checks if the create user request is valid.
func (r *CreateUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, customValidation.Email),
		validation.Field(&r.Name, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Role, validation.Required),
	)
}

// ToInput converts the request into the domain input, rejecting unknown role and
// capability tokens.
func (r *CreateUserRequest) ToInput() (*authDomain.CreateUserInput, error) {
	role, err := authDomain.ParseRole(r.Role)
	if err != nil {
		return nil, err
	}
	caps, err := authDomain.ParseCapabilities(r.Capabilities)
	if err != nil {
		return nil, err
	}
	return &authDomain.CreateUserInput{
		Email:        r.Email,
		Name:         r.Name,
		Password:     r.Password,
		Role:         role,
		Capabilities: caps,
	}, nil
}

// UpdateUserRequest contains the mutable user fields. Omitted fields are unchanged.
type UpdateUserRequest struct {
	Name         *string   `json:"name"`
	Role         *string   `json:"role"`
	Capabilities *[]string `json:"capabilities"`
	IsActive     *bool     `json:"is_active"`
}

// Validate checks if the update user request is valid.
func (r *UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Role, validation.NilOrNotEmpty),
	)
}

// ToInput converts the request into the domain input.
func (r *UpdateUserRequest) ToInput() (*authDomain.UpdateUserInput, error) {
	input := &authDomain.UpdateUserInput{
		Name:     r.Name,
		IsActive: r.IsActive,
	}
	if r.Role != nil {
		role, err := authDomain.ParseRole(*r.Role)
		if err != nil {
			return nil, err
		}
		input.Role = &role
	}
	if r.Capabilities != nil {
		caps, err := authDomain.ParseCapabilities(*r.Capabilities)
		if err != nil {
			return nil, err
		}
		input.Capabilities = &caps
	}
	return input, nil
}
