package domain

// Capability predicates. All are total over (role, capabilities); ADMIN passes every
// check and capabilities only ever add access.

var stsCapabilities = []Capability{CapStsRead, CapStsWrite, CapStsAdmin}

func isAdminOrBackoffice(role Role) bool {
	return role == RoleAdmin || role == RoleBackoffice
}

// CanStsRead reports whether the caller may read STS tickets.
func CanStsRead(role Role, caps Capabilities) bool {
	if role == RoleAdmin {
		return true
	}
	return isAdminOrBackoffice(role) && caps.HasAny(stsCapabilities...)
}

// CanStsWrite reports whether the caller may create and update STS tickets.
func CanStsWrite(role Role, caps Capabilities) bool {
	if role == RoleAdmin {
		return true
	}
	return isAdminOrBackoffice(role) && caps.HasAny(CapStsWrite, CapStsAdmin)
}

// CanStsAdmin reports whether the caller may administer STS tickets.
func CanStsAdmin(role Role, caps Capabilities) bool {
	if role == RoleAdmin {
		return true
	}
	return isAdminOrBackoffice(role) && caps.Has(CapStsAdmin)
}

// CanAccessPlanner reports whether the caller may open the planner section.
func CanAccessPlanner(role Role, caps Capabilities) bool {
	return role == RoleAdmin || role == RolePlanner || caps.Has(CapPlanner)
}

// CanAccessSts is the coarse gate for the STS section. Finer checks are applied per
// operation with CanStsRead, CanStsWrite and CanStsAdmin.
func CanAccessSts(role Role, caps Capabilities) bool {
	switch role {
	case RoleAdmin, RoleSupervisor, RoleHelpdesk, RoleAuditor:
		return true
	}
	return caps.HasAny(stsCapabilities...)
}

// CanAssignCases reports whether the caller may assign service cases.
func CanAssignCases(role Role, caps Capabilities) bool {
	return role == RoleAdmin || caps.Has(CapCaseAssign)
}

// Predicate is the signature shared by every capability predicate.
type Predicate func(Role, Capabilities) bool
