package identity

import "strings"

// RoleSet is a bitmask of roles. The zero value is the empty set, which route
// requirements read as "any authenticated identity".
type RoleSet uint8

// NewRoleSet builds a set from roles. Unknown roles are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s = s.With(r)
	}
	return s
}

// With returns a copy of s that also contains r.
func (s RoleSet) With(r Role) RoleSet {
	bit := r.bit()
	if bit < 0 {
		return s
	}
	return s | (1 << bit)
}

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	bit := r.bit()
	if bit < 0 {
		return false
	}
	return s&(1<<bit) != 0
}

// Empty reports whether the set has no members.
func (s RoleSet) Empty() bool {
	return s == 0
}

// Roles lists the members in the order returned by [Roles].
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, 3)
	for _, r := range Roles() {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) String() string {
	if s.Empty() {
		return "any"
	}
	roles := s.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ",")
}
