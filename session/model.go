package session

import "github.com/MrEthical07/goRate/identity"

// State is the published session tuple: an identity or nothing, plus the
// startup loading flag. States are values; the store never mutates one after
// handing it out.
type State struct {
	Identity *identity.Identity
	Loading  bool

	token string
}

// SignedIn reports whether an identity is present.
func (s State) SignedIn() bool {
	return s.Identity != nil
}

// Credential returns the raw token backing the identity, or "" when signed out.
func (s State) Credential() string {
	return s.token
}

func loadingState() State {
	return State{Loading: true}
}

func signedOutState() State {
	return State{}
}

func signedInState(id identity.Identity, raw string) State {
	return State{Identity: &id, token: raw}
}

func (s State) clone() State {
	if s.Identity == nil {
		return s
	}
	id := *s.Identity
	s.Identity = &id
	return s
}
