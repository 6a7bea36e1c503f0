package goRate

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// AdminDashboard describes the admindashboard operation and its observable behavior.
//
// AdminDashboard fetches users and stores concurrently. Stats.Ratings is the
// number of ratings across all stores.
func (c *Client) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	if _, err := c.require(RoleAdmin); err != nil {
		return nil, err
	}

	var (
		users  []User
		stores []Store
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = c.api.Users(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stores, err = c.api.Stores(gctx, StoreQuery{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, sessionErr(err, true)
	}

	ratings := 0
	for _, s := range stores {
		ratings += len(s.Ratings)
	}

	return &AdminDashboard{
		Users:  users,
		Stores: stores,
		Stats: DashboardStats{
			Users:   len(users),
			Stores:  len(stores),
			Ratings: ratings,
		},
	}, nil
}

// OwnerDashboard lists the stores of the signed-in OWNER and selects the
// first one with its ratings.
func (c *Client) OwnerDashboard(ctx context.Context) (*OwnerDashboard, error) {
	id, err := c.require(RoleOwner)
	if err != nil {
		return nil, err
	}

	owner, err := c.api.User(ctx, id.UserID, true)
	if err != nil {
		return nil, sessionErr(err, true)
	}

	dash := &OwnerDashboard{Stores: owner.Stores}
	if len(owner.Stores) == 0 {
		return dash, nil
	}

	dash.Selected, err = c.api.Store(ctx, owner.Stores[0].ID)
	if err != nil {
		return nil, sessionErr(err, true)
	}
	return dash, nil
}

// UserDashboard searches stores for the signed-in USER.
func (c *Client) UserDashboard(ctx context.Context, query string) (*UserDashboard, error) {
	if _, err := c.require(RoleUser); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	stores, err := c.api.Stores(ctx, StoreQuery{Name: query, Address: query})
	if err != nil {
		return nil, sessionErr(err, true)
	}
	return &UserDashboard{Query: query, Stores: stores}, nil
}
