package domain

import (
	"strings"

	apperrors "github.com/capitaldesk/desk/internal/errors"
)

// RouteRule gates every path under Prefix. A rule either lists the roles allowed in or
// names a predicate; never both.
type RouteRule struct {
	Prefix string
	Roles  []Role
	Allow  Predicate
}

// routeTable is checked in order; the first matching prefix wins.
var routeTable = []RouteRule{
	{Prefix: "/cases", Roles: []Role{RoleAdmin, RoleBackoffice}},
	{Prefix: "/work-orders", Roles: []Role{RoleAdmin, RoleTechnician}},
	{Prefix: "/buses", Roles: []Role{RoleAdmin, RoleBackoffice, RoleTechnician}},
	{Prefix: "/admin", Roles: []Role{RoleAdmin}},
	{Prefix: "/sts", Allow: CanAccessSts},
	{Prefix: "/planner", Allow: CanAccessPlanner},
}

// publicPaths are reachable without a session.
var publicPaths = map[string]struct{}{
	"/":                       {},
	"/login":                  {},
	"/auth/callback":          {},
	"/health":                 {},
	"/ready":                  {},
	"/password-reset":         {},
	"/password-reset/confirm": {},
}

// RouteRules returns a copy of the route table.
func RouteRules() []RouteRule {
	out := make([]RouteRule, len(routeTable))
	copy(out, routeTable)
	return out
}

// IsPublicPath reports whether path may be served without authentication.
func IsPublicPath(path string) bool {
	_, ok := publicPaths[path]
	return ok
}

// MatchPrefix reports whether path equals prefix or lies below it.
// "/cases" matches "/cases" and "/cases/42" but not "/casesx".
func MatchPrefix(prefix, path string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// MatchRoute returns the first rule whose prefix matches path.
func MatchRoute(path string) (RouteRule, bool) {
	for _, rule := range routeTable {
		if MatchPrefix(rule.Prefix, path) {
			return rule, true
		}
	}
	return RouteRule{}, false
}

// Permits reports whether the rule lets the principal through.
func (r RouteRule) Permits(p *Principal) bool {
	if r.Allow != nil {
		return p.Can(r.Allow)
	}
	return p.HasRole(r.Roles...)
}

// AuthorizePath applies the route table to path. Paths without a rule are open to any
// authenticated principal.
func AuthorizePath(p *Principal, path string) error {
	rule, ok := MatchRoute(path)
	if !ok || rule.Permits(p) {
		return nil
	}
	if rule.Allow != nil {
		return apperrors.Wrapf(apperrors.ErrCapabilityDenied, "access to %s", rule.Prefix)
	}
	return apperrors.Wrapf(apperrors.ErrRoleDenied, "access to %s", rule.Prefix)
}
