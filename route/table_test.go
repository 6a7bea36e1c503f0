package route

import (
	"testing"

	"github.com/MrEthical07/goRate/gate"
	"github.com/MrEthical07/goRate/identity"
	"github.com/MrEthical07/goRate/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIn(role identity.Role) session.State {
	return session.State{Identity: &identity.Identity{UserID: "u1", Email: "a@b.com", Role: role}}
}

func TestDefaultTableResolution(t *testing.T) {
	var signedOut session.State
	cases := []struct {
		path  string
		state session.State
		want  Outcome
	}{
		{Admin, session.State{Loading: true}, Outcome{Decision: gate.Pending}},
		{Login, session.State{Loading: true}, Outcome{Decision: gate.Pending}},

		{Login, signedOut, Outcome{gate.Allow, Login}},
		{Signup, signedOut, Outcome{gate.Allow, Signup}},
		{Home, signedOut, Outcome{gate.DenyRedirectLogin, Login}},
		{Admin, signedOut, Outcome{gate.DenyRedirectLogin, Login}},
		{Owner, signedOut, Outcome{gate.DenyRedirectLogin, Login}},
		{ChangePassword, signedOut, Outcome{gate.DenyRedirectLogin, Login}},

		{Login, signedIn(identity.RoleAdmin), Outcome{gate.DenyRedirectHome, Admin}},
		{Signup, signedIn(identity.RoleUser), Outcome{gate.DenyRedirectHome, Home}},
		{Home, signedIn(identity.RoleAdmin), Outcome{gate.Allow, Admin}},
		{Home, signedIn(identity.RoleOwner), Outcome{gate.Allow, Owner}},
		{Home, signedIn(identity.RoleUser), Outcome{gate.Allow, Home}},
		{Admin, signedIn(identity.RoleAdmin), Outcome{gate.Allow, Admin}},
		{Admin, signedIn(identity.RoleOwner), Outcome{gate.DenyRedirectHome, Owner}},
		{Admin, signedIn(identity.RoleUser), Outcome{gate.DenyRedirectHome, Home}},
		{Owner, signedIn(identity.RoleOwner), Outcome{gate.Allow, Owner}},
		{Owner, signedIn(identity.RoleAdmin), Outcome{gate.DenyRedirectHome, Admin}},
		{ChangePassword, signedIn(identity.RoleUser), Outcome{gate.Allow, ChangePassword}},
		{ChangePassword, signedIn(identity.RoleOwner), Outcome{gate.Allow, ChangePassword}},

		{"/nowhere", signedOut, Outcome{gate.DenyRedirectLogin, Login}},
		{"/nowhere", signedIn(identity.RoleOwner), Outcome{gate.Allow, Owner}},
		{"/admin/", signedIn(identity.RoleAdmin), Outcome{gate.Allow, Admin}},
		{"admin?tab=users", signedIn(identity.RoleAdmin), Outcome{gate.Allow, Admin}},
	}

	table := Default()
	for _, tc := range cases {
		got, err := table.Resolve(tc.path, tc.state)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "path %q", tc.path)
	}
}

func TestDefaultIsFrozen(t *testing.T) {
	err := Default().Register(Destination{Path: "/extra"})
	assert.ErrorIs(t, err, ErrTableFrozen)
	assert.Equal(t, []string{"/", "/admin", "/change-password", "/login", "/owner", "/signup"}, Default().Paths())
}

func TestTableRegistration(t *testing.T) {
	table := NewTable("/")
	require.ErrorIs(t, table.Register(Destination{Path: "reports"}), ErrInvalidPath)
	require.NoError(t, table.Register(Destination{Path: "/reports/", Required: identity.NewRoleSet(identity.RoleAdmin)}))
	require.ErrorIs(t, table.Register(Destination{Path: "/reports"}), ErrDuplicatePath)

	_, err := table.Resolve("/reports", signedIn(identity.RoleAdmin))
	require.ErrorIs(t, err, ErrTableNotFrozen)

	require.ErrorIs(t, table.Freeze(), ErrFallbackUndefined)
	require.NoError(t, table.Register(Destination{Path: "/"}))
	require.NoError(t, table.Freeze())

	d, ok := table.Lookup("/reports")
	require.True(t, ok)
	assert.Equal(t, "/reports", d.Path)

	got, err := table.Resolve("/reports", signedIn(identity.RoleUser))
	require.NoError(t, err)
	assert.Equal(t, Outcome{gate.DenyRedirectHome, Home}, got)
}

func TestLandingFor(t *testing.T) {
	assert.Equal(t, Admin, LandingFor(identity.RoleAdmin))
	assert.Equal(t, Owner, LandingFor(identity.RoleOwner))
	assert.Equal(t, Home, LandingFor(identity.RoleUser))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "/", Clean(""))
	assert.Equal(t, "/owner", Clean("owner/"))
	assert.Equal(t, "/stores/1", Clean("/stores//1#x"))
}
