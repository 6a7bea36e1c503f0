package route

import (
	"sync"

	"github.com/MrEthical07/goRate/identity"
)

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the frozen destination table of the store-rating client.
//
//	/login, /signup     guest only
//	/change-password    any signed-in identity
//	/                   any signed-in identity; ADMIN and OWNER go to their landing view
//	/admin              ADMIN
//	/owner              OWNER
//	anything else       resolved as /
func Default() *Table {
	defaultOnce.Do(func() {
		t := NewTable(Home)
		for _, d := range []Destination{
			{Path: Login, Kind: GuestOnly},
			{Path: Signup, Kind: GuestOnly},
			{Path: ChangePassword},
			{Path: Home, Kind: Landing},
			{Path: Admin, Required: identity.NewRoleSet(identity.RoleAdmin)},
			{Path: Owner, Required: identity.NewRoleSet(identity.RoleOwner)},
		} {
			if err := t.Register(d); err != nil {
				panic("route: " + err.Error())
			}
		}
		if err := t.Freeze(); err != nil {
			panic("route: " + err.Error())
		}
		defaultTable = t
	})
	return defaultTable
}

// LandingFor returns the default landing view of role.
func LandingFor(role identity.Role) string {
	switch role {
	case identity.RoleAdmin:
		return Admin
	case identity.RoleOwner:
		return Owner
	default:
		return Home
	}
}
