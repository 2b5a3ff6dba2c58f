package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/capitaldesk/desk/internal/errors"
)

func TestPasswordStrength(t *testing.T) {
	strict := PasswordStrength{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	tests := []struct {
		name     string
		rule     PasswordStrength
		password string
		errMsg   string
	}{
		{name: "strict ok", rule: strict, password: "Depot#1042"},
		{name: "strict too short", rule: strict, password: "Dp#1", errMsg: "at least 8 characters"},
		{name: "strict no upper", rule: strict, password: "depot#1042", errMsg: "uppercase letter"},
		{name: "strict no lower", rule: strict, password: "DEPOT#1042", errMsg: "lowercase letter"},
		{name: "strict no number", rule: strict, password: "Depot#North", errMsg: "number"},
		{name: "strict no special", rule: strict, password: "Depot1042", errMsg: "special character"},
		{name: "symbol counts as special", rule: strict, password: "Depot+1042", errMsg: ""},
		{name: "length only", rule: PasswordStrength{MinLength: 10}, password: "tencharact"},
		{name: "length only short", rule: PasswordStrength{MinLength: 10}, password: "short", errMsg: "at least 10"},
		{name: "default policy", rule: DefaultPassword, password: "Change-me-now-1"},
		{name: "default policy no number", rule: DefaultPassword, password: "Change-me-now", errMsg: "number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate(tt.password)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestStringRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  interface{ Validate(interface{}) error }
		input string
		valid bool
	}{
		{"email plain", Email, "ops@capital.test", true},
		{"email subdomain", Email, "ops@north.capital.test", true},
		{"email plus tag", Email, "ops+night@capital.test", true},
		{"email missing at", Email, "ops.capital.test", false},
		{"email missing domain", Email, "ops@", false},
		{"email missing local part", Email, "@capital.test", false},
		{"email missing tld", Email, "ops@capital", false},
		{"email with space", Email, "ops @capital.test", false},

		{"no whitespace ok", NoWhitespace, "cdk_token", true},
		{"no whitespace inner space", NoWhitespace, "bus 1042", true},
		{"no whitespace leading", NoWhitespace, " cdk_token", false},
		{"no whitespace trailing", NoWhitespace, "cdk_token\n", false},

		{"not blank ok", NotBlank, "Brake noise", true},
		{"not blank spaces", NotBlank, "   ", false},
		{"not blank tabs and newlines", NotBlank, " \t\n ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate(tt.input)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(assert.AnError)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), assert.AnError.Error())
}

func TestPasswordStrength_MinLengthMessage(t *testing.T) {
	err := PasswordStrength{MinLength: 12}.Validate("short")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 12 characters")
}

func TestSlug(t *testing.T) {
	tests := []struct {
		slug  string
		valid bool
	}{
		{"metro-bus", true},
		{"a1", true},
		{"x", false},
		{"Metro", false},
		{"-metro", false},
		{"metro_bus", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			err := Slug.Validate(tt.slug)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestOneOf(t *testing.T) {
	rule := OneOf("low", "normal", "high")

	assert.NoError(t, rule.Validate("normal"))
	err := rule.Validate("urgent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "low, normal, high")
}

func TestUUID(t *testing.T) {
	assert.NoError(t, UUID.Validate("0192f0a4-5b1e-7c3d-8e4f-a1b2c3d4e5f6"))
	assert.NoError(t, UUID.Validate(""))
	assert.Error(t, UUID.Validate("bus-1042"))
}

func TestPasswordStrength_CountsCharacters(t *testing.T) {
	rule := PasswordStrength{MinLength: 10}

	// 10 characters, 20 bytes
	assert.NoError(t, rule.Validate("ääääääääää"))
	assert.Error(t, rule.Validate("äääää"))
}

func TestPasswordStrength_RejectsNonString(t *testing.T) {
	err := DefaultPassword.Validate(42)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be a string")
}

func TestDefaultPassword(t *testing.T) {
	assert.NoError(t, DefaultPassword.Validate("Change-me-now-1"))
	assert.NoError(t, DefaultPassword.Validate("Depot1042North"))
	assert.Error(t, DefaultPassword.Validate("depot1042north"))
}

func TestFleetNumber(t *testing.T) {
	tests := []struct {
		fleetNumber string
		valid       bool
	}{
		{"1042", true},
		{"AR-220B", true},
		{"1", true},
		{"-1042", false},
		{"10 42", false},
		{"1042/B", false},
		{"123456789012345678901234567890123", false},
	}

	for _, tt := range tests {
		t.Run(tt.fleetNumber, func(t *testing.T) {
			err := FleetNumber.Validate(tt.fleetNumber)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
