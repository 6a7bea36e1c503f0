package identity

import (
	"errors"
	"fmt"
)

// ErrUnknownRole is returned by ParseRole for values outside the closed set.
var ErrUnknownRole = errors.New("unknown role")

// Role is the authorization role carried by a credential token.
type Role string

const (
	// RoleAdmin manages users and stores.
	RoleAdmin Role = "ADMIN"
	// RoleUser browses and rates stores.
	RoleUser Role = "USER"
	// RoleOwner owns stores and reads their ratings.
	RoleOwner Role = "OWNER"
)

// Roles returns every recognized role in a stable order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleUser, RoleOwner}
}

// ParseRole maps a wire value onto the closed role set. Matching is exact:
// the server emits upper-case names and anything else is treated as unknown.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleAdmin, RoleUser, RoleOwner:
		return Role(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, value)
	}
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}

func (r Role) bit() int {
	switch r {
	case RoleAdmin:
		return 0
	case RoleUser:
		return 1
	case RoleOwner:
		return 2
	default:
		return -1
	}
}
