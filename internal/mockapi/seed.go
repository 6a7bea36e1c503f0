package mockapi

import (
	"github.com/MrEthical07/goRate/api"
	"github.com/MrEthical07/goRate/identity"
)

// DemoPassword is the password of every account created by SeedDemo.
const DemoPassword = "password123"

// SeedDemo adds one account per role and a few stores owned by the OWNER
// account.
func (s *Server) SeedDemo() error {
	accounts := []api.UserInput{
		{Name: "Demo Admin", Email: "admin@storerate.local", Address: "1 Admin Way", Role: identity.RoleAdmin},
		{Name: "Demo Owner", Email: "owner@storerate.local", Address: "2 Market St", Role: identity.RoleOwner},
		{Name: "Demo User", Email: "user@storerate.local", Address: "3 Main St", Role: identity.RoleUser},
	}

	var ownerID string
	for _, in := range accounts {
		in.Password = DemoPassword
		u, err := s.AddUser(in)
		if err != nil {
			return err
		}
		if u.Role == identity.RoleOwner {
			ownerID = u.ID
		}
	}

	for _, in := range []api.StoreInput{
		{Name: "Corner Grocery", Email: "grocery@storerate.local", Address: "10 Market St", OwnerID: ownerID},
		{Name: "Book Nook", Email: "books@storerate.local", Address: "12 Market St", OwnerID: ownerID},
		{Name: "Hardware Hub", Email: "hardware@storerate.local", Address: "40 Harbor Rd"},
	} {
		if _, err := s.AddStore(in); err != nil {
			return err
		}
	}
	return nil
}
