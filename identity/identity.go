package identity

// Identity is the client-derived view of the signed-in principal. It is
// decoded from an unverified token payload and is only good for routing
// decisions; the server verifies the credential on every request.
//
// Identity values are replaced wholesale and never patched field by field.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// In reports whether the identity's role is a member of set.
func (id Identity) In(set RoleSet) bool {
	return set.Has(id.Role)
}
