package goRate

import (
	"context"
	"fmt"
	"strings"
)

// Users lists every user. ADMIN only.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	if _, err := c.require(RoleAdmin); err != nil {
		return nil, err
	}
	users, err := c.api.Users(ctx)
	return users, sessionErr(err, true)
}

// User returns one user. ADMIN only.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	if _, err := c.require(RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	user, err := c.api.User(ctx, id, false)
	return user, sessionErr(err, true)
}

// OwnerCandidates lists the users that can own a store.
func (c *Client) OwnerCandidates(ctx context.Context) ([]User, error) {
	users, err := c.Users(ctx)
	if err != nil {
		return nil, err
	}
	owners := make([]User, 0, len(users))
	for _, u := range users {
		if u.Role == RoleOwner {
			owners = append(owners, u)
		}
	}
	return owners, nil
}

// CreateUser creates a user with any role. ADMIN only.
func (c *Client) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	if _, err := c.require(RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if in.Role != "" && !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}
	if err := c.policy.Validate(in.Password); err != nil {
		c.metricInc(MetricPasswordPolicyRejected)
		return nil, fmt.Errorf("%w: %w", ErrPasswordPolicy, err)
	}
	user, err := c.api.CreateUser(ctx, in)
	return user, sessionErr(err, true)
}

// UpdateUser updates the fields of in that are set. ADMIN only.
func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) (*User, error) {
	if _, err := c.require(RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if in.Role != "" && !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}
	user, err := c.api.UpdateUser(ctx, id, in)
	return user, sessionErr(err, true)
}
