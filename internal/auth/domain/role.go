// Package domain defines the authentication and authorization model: users, sessions,
// roles, capabilities and the predicates and route table that gate every request.
package domain

import (
	"strings"

	apperrors "github.com/capitaldesk/desk/internal/errors"
)

// Role is the coarse job function of a user. Every user has exactly one.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleBackoffice Role = "BACKOFFICE"
	RoleTechnician Role = "TECHNICIAN"
	RolePlanner    Role = "PLANNER"
	RoleSupervisor Role = "SUPERVISOR"
	RoleHelpdesk   Role = "HELPDESK"
	RoleAuditor    Role = "AUDITOR"
)

// AllRoles lists every role in declaration order.
func AllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleBackoffice,
		RoleTechnician,
		RolePlanner,
		RoleSupervisor,
		RoleHelpdesk,
		RoleAuditor,
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBackoffice, RoleTechnician, RolePlanner,
		RoleSupervisor, RoleHelpdesk, RoleAuditor:
		return true
	}
	return false
}

// ParseRole parses a role name, ignoring case and surrounding whitespace.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown role %q", s)
	}
	return r, nil
}

// RoleNames returns the role names as strings, for validation rules.
func RoleNames() []string {
	roles := AllRoles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}
