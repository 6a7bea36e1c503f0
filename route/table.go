package route

import (
	"errors"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/MrEthical07/goRate/gate"
	"github.com/MrEthical07/goRate/identity"
	"github.com/MrEthical07/goRate/session"
)

// Paths of the store-rating client.
const (
	Login          = "/login"
	Signup         = "/signup"
	ChangePassword = "/change-password"
	Home           = "/"
	Admin          = "/admin"
	Owner          = "/owner"
)

var (
	ErrTableFrozen       = errors.New("route table frozen")
	ErrTableNotFrozen    = errors.New("route table not frozen")
	ErrInvalidPath       = errors.New("route path must start with /")
	ErrDuplicatePath     = errors.New("route path already registered")
	ErrFallbackUndefined = errors.New("route fallback is not a registered path")
)

// Kind tells Resolve how a destination treats signed-in and signed-out
// visitors.
type Kind uint8

const (
	// Protected destinations run the gate against Required.
	Protected Kind = iota
	// GuestOnly destinations are for signed-out visitors; a signed-in identity
	// is sent to its landing view.
	GuestOnly
	// Landing destinations are protected and also bounce identities whose
	// landing view lies elsewhere.
	Landing
)

// Destination is one declared path.
type Destination struct {
	Path     string
	Required identity.RoleSet
	Kind     Kind
}

// Outcome is the result of resolving a path. Target is the path to show, and
// is empty while Decision is gate.Pending.
type Outcome struct {
	Decision gate.Decision
	Target   string
}

// Table holds the declared destinations. It is safe for concurrent use once
// frozen.
type Table struct {
	mu       sync.RWMutex
	byPath   map[string]Destination
	fallback string
	frozen   bool
}

// NewTable creates an empty table. Unknown paths resolve as fallback.
func NewTable(fallback string) *Table {
	return &Table{
		byPath:   make(map[string]Destination),
		fallback: Clean(fallback),
	}
}

// Register declares a destination. It fails after Freeze.
func (t *Table) Register(d Destination) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen {
		return ErrTableFrozen
	}
	if !strings.HasPrefix(d.Path, "/") {
		return ErrInvalidPath
	}
	d.Path = Clean(d.Path)
	if _, exists := t.byPath[d.Path]; exists {
		return ErrDuplicatePath
	}
	t.byPath[d.Path] = d
	return nil
}

// Freeze prevents further registrations. The fallback must be registered by
// then.
func (t *Table) Freeze() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.byPath[t.fallback]; !ok {
		return ErrFallbackUndefined
	}
	t.frozen = true
	return nil
}

// Lookup returns the destination declared at p.
func (t *Table) Lookup(p string) (Destination, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.byPath[Clean(p)]
	return d, ok
}

// Paths lists the declared paths in lexical order.
func (t *Table) Paths() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.byPath))
	for p := range t.byPath {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Resolve decides where a request for p ends up given state. Undeclared paths
// resolve as the fallback destination. Resolve on an unfrozen table returns
// ErrTableNotFrozen.
func (t *Table) Resolve(p string, state session.State) (Outcome, error) {
	t.mu.RLock()
	frozen := t.frozen
	dest, ok := t.byPath[Clean(p)]
	if !ok {
		dest = t.byPath[t.fallback]
	}
	t.mu.RUnlock()

	if !frozen {
		return Outcome{}, ErrTableNotFrozen
	}
	if state.Loading {
		return Outcome{Decision: gate.Pending}, nil
	}

	if dest.Kind == GuestOnly {
		if state.Identity != nil {
			return Outcome{Decision: gate.DenyRedirectHome, Target: LandingFor(state.Identity.Role)}, nil
		}
		return Outcome{Decision: gate.Allow, Target: dest.Path}, nil
	}

	d := gate.Authorize(state, dest.Required)
	switch d {
	case gate.DenyRedirectLogin:
		return Outcome{Decision: d, Target: Login}, nil
	case gate.DenyRedirectHome:
		return Outcome{Decision: d, Target: LandingFor(state.Identity.Role)}, nil
	}

	target := dest.Path
	if dest.Kind == Landing {
		target = LandingFor(state.Identity.Role)
	}
	return Outcome{Decision: d, Target: target}, nil
}

// Clean normalises p to a rooted path without a trailing slash. Query
// strings and fragments are dropped.
func Clean(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return path.Clean("/" + p)
}
