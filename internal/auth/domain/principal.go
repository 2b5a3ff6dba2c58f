package domain

import (
	"github.com/google/uuid"
)

// Principal is the authenticated caller. It is built once per request from the session
// and never modified afterwards.
type Principal struct {
	UserID         uuid.UUID
	TenantID       uuid.UUID
	Email          string
	Name           string
	Role           Role
	Capabilities   Capabilities
	SessionVersion int
	SessionID      uuid.UUID
}

// HasRole reports whether the principal's role is one of roles.
func (p *Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the principal is an administrator.
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Can evaluates a predicate against the principal.
func (p *Principal) Can(pred Predicate) bool {
	return pred(p.Role, p.Capabilities)
}

// Permissions is the derived view returned to clients.
type Permissions struct {
	StsRead       bool
	StsWrite      bool
	StsAdmin      bool
	StsAccess     bool
	PlannerAccess bool
	CaseAssign    bool
}

// Permissions evaluates every predicate for the principal.
func (p *Principal) Permissions() Permissions {
	return Permissions{
		StsRead:       p.Can(CanStsRead),
		StsWrite:      p.Can(CanStsWrite),
		StsAdmin:      p.Can(CanStsAdmin),
		StsAccess:     p.Can(CanAccessSts),
		PlannerAccess: p.Can(CanAccessPlanner),
		CaseAssign:    p.Can(CanAssignCases),
	}
}
