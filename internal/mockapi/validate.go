package mockapi

import (
	"net/mail"
	"sort"
	"strings"

	"github.com/MrEthical07/goRate/api"
	"github.com/MrEthical07/goRate/password"
)

const maxAddressLength = 400

// validateUser returns one message per problem. On update (full=false)
// empty fields are left alone.
func validateUser(in api.UserInput, full bool) []string {
	var problems []string
	if full || in.Name != "" {
		if strings.TrimSpace(in.Name) == "" {
			problems = append(problems, "name should not be empty")
		}
	}
	if full || in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			problems = append(problems, "email must be an email")
		}
	}
	if len(in.Address) > maxAddressLength {
		problems = append(problems, "address must be shorter than or equal to 400 characters")
	}
	if full || in.Password != "" {
		if err := password.DefaultPolicy().Validate(in.Password); err != nil {
			problems = append(problems, "password must be longer than or equal to 8 characters")
		}
	}
	if in.Role != "" && !in.Role.Valid() {
		problems = append(problems, "role must be one of ADMIN, USER, OWNER")
	}
	return problems
}

func validateStore(in api.StoreInput, full bool) []string {
	var problems []string
	if full && strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name should not be empty")
	}
	if full || in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			problems = append(problems, "email must be an email")
		}
	}
	if len(in.Address) > maxAddressLength {
		problems = append(problems, "address must be shorter than or equal to 400 characters")
	}
	return problems
}

func sortUsers(users []api.User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
}
