package domain

import (
	"slices"
	"strings"

	apperrors "github.com/capitaldesk/desk/internal/errors"
)

// Capability is an additive permission token granted on top of a role.
type Capability string

const (
	CapStsRead    Capability = "STS_READ"
	CapStsWrite   Capability = "STS_WRITE"
	CapStsAdmin   Capability = "STS_ADMIN"
	CapPlanner    Capability = "PLANNER"
	CapCaseAssign Capability = "CASE_ASSIGN"
)

// Valid reports whether c is a known capability.
func (c Capability) Valid() bool {
	switch c {
	case CapStsRead, CapStsWrite, CapStsAdmin, CapPlanner, CapCaseAssign:
		return true
	}
	return false
}

// Capabilities is a sorted set of known capability tokens.
type Capabilities []Capability

// ParseCapabilities validates tokens supplied by an administrator. Unknown tokens are
// rejected; duplicates are collapsed.
func ParseCapabilities(tokens []string) (Capabilities, error) {
	caps := make(Capabilities, 0, len(tokens))
	for _, t := range tokens {
		c := Capability(strings.ToUpper(strings.TrimSpace(t)))
		if !c.Valid() {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown capability %q", t)
		}
		caps = append(caps, c)
	}
	return caps.normalize(), nil
}

// DecodeCapabilities reads the stored comma-separated form. Unknown tokens are
// dropped so a stale value can never grant access.
func DecodeCapabilities(stored string) Capabilities {
	if stored == "" {
		return Capabilities{}
	}
	parts := strings.Split(stored, ",")
	caps := make(Capabilities, 0, len(parts))
	for _, p := range parts {
		c := Capability(strings.ToUpper(strings.TrimSpace(p)))
		if c.Valid() {
			caps = append(caps, c)
		}
	}
	return caps.normalize()
}

// Encode returns the comma-separated storage form.
func (cs Capabilities) Encode() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

// Strings returns the tokens as strings.
func (cs Capabilities) Strings() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

// Has reports whether c is in the set.
func (cs Capabilities) Has(c Capability) bool {
	return slices.Contains(cs, c)
}

// HasAny reports whether any of want is in the set.
func (cs Capabilities) HasAny(want ...Capability) bool {
	for _, c := range want {
		if cs.Has(c) {
			return true
		}
	}
	return false
}

func (cs Capabilities) normalize() Capabilities {
	out := slices.Clone(cs)
	slices.Sort(out)
	return slices.Compact(out)
}
