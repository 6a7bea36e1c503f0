package token

import (
	"time"

	"github.com/MrEthical07/goRate/identity"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload layout shared by the server and the client. The
// subject claim carries the user id.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Identity maps the claims onto an identity. Callers get Claims from Decode
// or Issuer.Verify, both of which have already checked the role.
func (c *Claims) Identity() identity.Identity {
	if c == nil {
		return identity.Identity{}
	}
	return identity.Identity{
		UserID: c.Subject,
		Email:  c.Email,
		Role:   identity.Role(c.Role),
	}
}

// Expired reports whether the exp claim lies before now minus leeway. Tokens
// without an exp claim never expire from the client's point of view.
func (c *Claims) Expired(now time.Time, leeway time.Duration) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}
	return now.Add(-leeway).After(c.ExpiresAt.Time)
}
