package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// User fetches one user. withStores asks the API to include owned stores.
func (c *Client) User(ctx context.Context, id string, withStores bool) (*User, error) {
	var query url.Values
	if withStores {
		query = url.Values{"relations": {"stores"}}
	}
	var out User
	if err := c.do(ctx, http.MethodGet, pathID("/users", id), query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPost, "/users", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPatch, pathID("/users", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
