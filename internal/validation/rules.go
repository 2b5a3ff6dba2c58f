// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/capitaldesk/desk/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// slugRegex matches tenant slugs: lowercase letters, digits and dashes
	slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}$`)

	// fleetNumberRegex matches depot fleet numbers such as "1042" or "AR-220B"
	fleetNumberRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{0,31}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// PasswordStrength is a password policy. Every character class it requires must
// appear at least once.
type PasswordStrength struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

type charClasses struct {
	upper, lower, number, special bool
}

func classify(s string) charClasses {
	var c charClasses
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsNumber(r):
			c.number = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			c.special = true
		}
	}
	return c
}

// Validate reports the first requirement the password misses. Length is counted in
// characters, not bytes.
func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if utf8.RuneCountInString(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			"password must be at least "+strconv.Itoa(p.MinLength)+" characters",
		)
	}

	c := classify(s)
	switch {
	case p.RequireUpper && !c.upper:
		return validation.NewError("validation_password_uppercase",
			"password must contain at least one uppercase letter")
	case p.RequireLower && !c.lower:
		return validation.NewError("validation_password_lowercase",
			"password must contain at least one lowercase letter")
	case p.RequireNumber && !c.number:
		return validation.NewError("validation_password_number",
			"password must contain at least one number")
	case p.RequireSpecial && !c.special:
		return validation.NewError("validation_password_special",
			"password must contain at least one special character")
	}
	return nil
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// Slug validates a tenant slug
var Slug = validation.NewStringRuleWithError(
	func(s string) bool {
		return slugRegex.MatchString(s)
	},
	validation.NewError("validation_slug", "must be 2-63 lowercase letters, digits or dashes"),
)

// FleetNumber validates a bus fleet number
var FleetNumber = validation.NewStringRuleWithError(
	func(s string) bool {
		return fleetNumberRegex.MatchString(s)
	},
	validation.NewError("validation_fleet_number", "must be letters, digits or dashes (max 32)"),
)

// UUID validates that a string is a well-formed UUID
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// OneOf validates that a string value belongs to the given set.
func OneOf(values ...string) validation.Rule {
	allowed := make([]interface{}, 0, len(values))
	for _, v := range values {
		allowed = append(allowed, v)
	}
	return validation.In(allowed...).Error("must be one of: " + strings.Join(values, ", "))
}

// DefaultPassword is the password policy applied to user-chosen passwords.
var DefaultPassword = PasswordStrength{
	MinLength:     10,
	RequireUpper:  true,
	RequireLower:  true,
	RequireNumber: true,
}
