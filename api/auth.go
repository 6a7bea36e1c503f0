package api

import (
	"context"
	"net/http"

	"github.com/MrEthical07/goRate/transport"
)

// Login exchanges credentials for a raw credential token. The request never
// carries the current session's credential.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var out tokenResponse
	if err := c.do(transport.Anonymous(ctx), http.MethodPost, "/auth/login", nil, creds, &out); err != nil {
		return "", err
	}
	if out.value() == "" {
		return "", ErrNoToken
	}
	return out.value(), nil
}

// Signup registers a regular user account.
func (c *Client) Signup(ctx context.Context, in Signup) error {
	return c.do(transport.Anonymous(ctx), http.MethodPost, "/auth/signup", nil, in, nil)
}

// ChangePassword changes the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, in PasswordChange) error {
	return c.do(ctx, http.MethodPatch, "/auth/change-password", nil, in, nil)
}
