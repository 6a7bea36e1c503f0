package goRate

import (
	"github.com/MrEthical07/goRate/api"
	"github.com/MrEthical07/goRate/gate"
	"github.com/MrEthical07/goRate/identity"
	"github.com/MrEthical07/goRate/route"
	"github.com/MrEthical07/goRate/session"
)

// Identity is the signed-in principal as decoded from the credential token.
type Identity = identity.Identity

// Role is one of RoleAdmin, RoleUser or RoleOwner.
type Role = identity.Role

const (
	RoleAdmin = identity.RoleAdmin
	RoleUser  = identity.RoleUser
	RoleOwner = identity.RoleOwner
)

// Session is the published session state: an identity or nothing, plus the
// loading flag that is set until Initialize completes.
type Session = session.State

// Decision is the outcome of an authorization check.
type Decision = gate.Decision

const (
	DecisionPending           = gate.Pending
	DecisionAllow             = gate.Allow
	DecisionDenyRedirectLogin = gate.DenyRedirectLogin
	DecisionDenyRedirectHome  = gate.DenyRedirectHome
)

// Outcome is the resolved target of a navigation.
type Outcome = route.Outcome

// REST resources.
type (
	User          = api.User
	Store         = api.Store
	Rating        = api.Rating
	UserRef       = api.UserRef
	StoreRef      = api.StoreRef
	UserInput     = api.UserInput
	StoreInput    = api.StoreInput
	StoreQuery    = api.StoreQuery
	SignupRequest = api.Signup
)

// DashboardStats are the totals shown on the admin dashboard.
type DashboardStats struct {
	Users   int
	Stores  int
	Ratings int
}

// AdminDashboard is the data of the /admin view.
type AdminDashboard struct {
	Users  []User
	Stores []Store
	Stats  DashboardStats
}

// OwnerDashboard is the data of the /owner view. Selected holds the details
// of the first owned store, or nil when the owner has none.
type OwnerDashboard struct {
	Stores   []StoreRef
	Selected *Store
}

// UserDashboard is the data of the / view for regular users.
type UserDashboard struct {
	Query  string
	Stores []Store
}

// SessionRejection describes a session the server stopped accepting.
type SessionRejection struct {
	UserID    string
	Role      Role
	Method    string
	Path      string
	RequestID string
	// Redirect is where the user should be sent next.
	Redirect string
}
