package gate

import (
	"github.com/MrEthical07/goRate/identity"
	"github.com/MrEthical07/goRate/session"
)

// Authorize evaluates state against required. An empty required set admits
// any authenticated identity.
func Authorize(state session.State, required identity.RoleSet) Decision {
	if state.Loading {
		return Pending
	}
	if state.Identity == nil {
		return DenyRedirectLogin
	}
	if required.Empty() || state.Identity.In(required) {
		return Allow
	}
	return DenyRedirectHome
}

// Source supplies the current session. *session.Store satisfies it.
type Source interface {
	Session() session.State
}

// Hook observes every evaluation made through a Gate.
type Hook func(required identity.RoleSet, state session.State, d Decision)

// Gate evaluates requirements against a live session source.
type Gate struct {
	source Source
	hooks  []Hook
}

// New returns a gate reading from source. Hooks run synchronously after each
// evaluation, in the order given.
func New(source Source, hooks ...Hook) *Gate {
	return &Gate{source: source, hooks: hooks}
}

// Check evaluates the current session against roles. No roles means any
// authenticated identity.
func (g *Gate) Check(roles ...identity.Role) Decision {
	return g.CheckSet(identity.NewRoleSet(roles...))
}

// CheckSet is Check with a prebuilt requirement.
func (g *Gate) CheckSet(required identity.RoleSet) Decision {
	var state session.State
	if g != nil && g.source != nil {
		state = g.source.Session()
	}
	d := Authorize(state, required)
	if g != nil {
		for _, h := range g.hooks {
			h(required, state, d)
		}
	}
	return d
}
