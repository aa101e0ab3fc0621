package identity

import (
	"sort"
	"strings"
)

// Role is the closed set of access levels in the mesh.
// Serialization to strings happens only at the token and header boundaries.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a wire string onto the closed enumeration.
// Unknown values are dropped by callers rather than invented.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(RoleUser):
		return RoleUser, true
	case string(RoleAdmin):
		return RoleAdmin, true
	default:
		return "", false
	}
}

// ParseRoles splits a comma-joined role list, discarding unknown or empty tags.
func ParseRoles(raw string) []Role {
	parts := strings.Split(raw, ",")
	roles := make([]Role, 0, len(parts))
	for _, p := range parts {
		if role, ok := ParseRole(p); ok && !containsRole(roles, role) {
			roles = append(roles, role)
		}
	}
	return roles
}

// JoinRoles renders roles as a comma-joined list with no spaces, in a
// deterministic order.
func JoinRoles(roles []Role) string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func containsRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Principal is the verified identity attached to a single request. It is
// constructed once per request (token decode, login, or propagated headers)
// and never shared across requests.
type Principal struct {
	ID       int64
	Username string
	Roles    []Role
}

// Anonymous reports whether no verified identity is present.
func (p Principal) Anonymous() bool {
	return p.ID == 0 && p.Username == ""
}

// HasRole reports membership in the principal's role set.
func (p Principal) HasRole(role Role) bool {
	return containsRole(p.Roles, role)
}

// IsAdmin is shorthand for the one role check made everywhere.
func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

// CanMutate decides whether the principal may mutate or delete a resource
// owned by ownerID: admins always, owners always, everyone else never.
// Anonymous principals are denied regardless of ownerID.
func CanMutate(p Principal, ownerID int64) bool {
	if p.Anonymous() {
		return false
	}
	return p.IsAdmin() || p.ID == ownerID
}
