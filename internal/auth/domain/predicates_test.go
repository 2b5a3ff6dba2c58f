package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allCapabilities = []Capability{CapStsRead, CapStsWrite, CapStsAdmin, CapPlanner, CapCaseAssign}

// capabilitySubsets returns every subset of the known capabilities.
func capabilitySubsets() []Capabilities {
	n := len(allCapabilities)
	subsets := make([]Capabilities, 0, 1<<n)
	for mask := 0; mask < 1<<n; mask++ {
		set := Capabilities{}
		for i, c := range allCapabilities {
			if mask&(1<<i) != 0 {
				set = append(set, c)
			}
		}
		subsets = append(subsets, set.normalize())
	}
	return subsets
}

func TestStsPredicates_Hierarchy(t *testing.T) {
	for _, caps := range capabilitySubsets() {
		admin := CanStsAdmin(RoleBackoffice, caps)
		write := CanStsWrite(RoleBackoffice, caps)
		read := CanStsRead(RoleBackoffice, caps)

		if admin {
			assert.True(t, write, "admin implies write for %v", caps)
		}
		if write {
			assert.True(t, read, "write implies read for %v", caps)
		}
	}
}

func TestStsPredicates_AdminUnconditional(t *testing.T) {
	for _, caps := range capabilitySubsets() {
		assert.True(t, CanStsRead(RoleAdmin, caps))
		assert.True(t, CanStsWrite(RoleAdmin, caps))
		assert.True(t, CanStsAdmin(RoleAdmin, caps))
		assert.True(t, CanAccessPlanner(RoleAdmin, caps))
		assert.True(t, CanAccessSts(RoleAdmin, caps))
		assert.True(t, CanAssignCases(RoleAdmin, caps))
	}
}

func TestStsPredicates_OtherRolesDenied(t *testing.T) {
	roles := []Role{RoleTechnician, RolePlanner, RoleSupervisor, RoleHelpdesk, RoleAuditor}
	for _, role := range roles {
		for _, caps := range capabilitySubsets() {
			assert.False(t, CanStsRead(role, caps), "%s %v", role, caps)
			assert.False(t, CanStsWrite(role, caps), "%s %v", role, caps)
			assert.False(t, CanStsAdmin(role, caps), "%s %v", role, caps)
		}
	}
}

func TestBackofficeStsWriteScenario(t *testing.T) {
	p := &Principal{Role: RoleBackoffice, Capabilities: Capabilities{CapStsWrite}}

	assert.True(t, p.Can(CanStsRead))
	assert.True(t, p.Can(CanStsWrite))
	assert.False(t, p.Can(CanStsAdmin))
}

func TestCanAccessPlanner(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		caps     Capabilities
		expected bool
	}{
		{"admin", RoleAdmin, nil, true},
		{"planner role", RolePlanner, nil, true},
		{"technician with planner capability", RoleTechnician, Capabilities{CapPlanner}, true},
		{"backoffice without capability", RoleBackoffice, Capabilities{CapStsAdmin}, false},
		{"auditor", RoleAuditor, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanAccessPlanner(tt.role, tt.caps))
		})
	}
}

func TestCanAccessSts(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		caps     Capabilities
		expected bool
	}{
		{"supervisor", RoleSupervisor, nil, true},
		{"helpdesk", RoleHelpdesk, nil, true},
		{"auditor", RoleAuditor, nil, true},
		{"backoffice without capability", RoleBackoffice, nil, false},
		{"backoffice with read", RoleBackoffice, Capabilities{CapStsRead}, true},
		{"technician with write", RoleTechnician, Capabilities{CapStsWrite}, true},
		{"planner with planner only", RolePlanner, Capabilities{CapPlanner}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanAccessSts(tt.role, tt.caps))
		})
	}
}

func TestCanAssignCases(t *testing.T) {
	assert.True(t, CanAssignCases(RoleBackoffice, Capabilities{CapCaseAssign}))
	assert.False(t, CanAssignCases(RoleBackoffice, nil))
	assert.False(t, CanAssignCases(RoleSupervisor, Capabilities{CapStsAdmin}))
}

func TestPrincipal_Permissions(t *testing.T) {
	p := &Principal{Role: RoleBackoffice, Capabilities: Capabilities{CapStsRead, CapPlanner}}

	perms := p.Permissions()
	assert.Equal(t, Permissions{
		StsRead:       true,
		StsAccess:     true,
		PlannerAccess: true,
	}, perms)
}
