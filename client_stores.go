package goRate

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrEthical07/goRate/api"
)

const (
	minRating = 1
	maxRating = 5
)

// SearchStores lists stores whose name or address matches term. An empty
// term lists every store.
func (c *Client) SearchStores(ctx context.Context, term string) ([]Store, error) {
	term = strings.TrimSpace(term)
	return c.Stores(ctx, StoreQuery{Name: term, Address: term})
}

// Stores lists stores filtered by q. Any signed-in identity may list stores.
func (c *Client) Stores(ctx context.Context, q StoreQuery) ([]Store, error) {
	if _, err := c.require(); err != nil {
		return nil, err
	}
	stores, err := c.api.Stores(ctx, q)
	return stores, sessionErr(err, true)
}

// Store returns one store with its ratings.
func (c *Client) Store(ctx context.Context, id string) (*Store, error) {
	if _, err := c.require(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: store id is required", ErrInvalidInput)
	}
	store, err := c.api.Store(ctx, id)
	return store, sessionErr(err, true)
}

// RateStore describes the ratestore operation and its observable behavior.
//
// RateStore submits value for storeID on behalf of the signed-in USER and
// returns the store as refetched afterwards, so AverageRating reflects the
// new rating. Values outside 1..5 fail with ErrInvalidRating before any
// request is made.
func (c *Client) RateStore(ctx context.Context, storeID string, value int) (*Store, error) {
	id, err := c.require(RoleUser)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(storeID) == "" {
		return nil, fmt.Errorf("%w: store id is required", ErrInvalidInput)
	}
	if value < minRating || value > maxRating {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRating, value)
	}

	if err := c.api.Rate(ctx, id.UserID, storeID, value); err != nil {
		return nil, sessionErr(err, true)
	}
	c.metricInc(MetricRatingSubmitted)
	c.logger.Debug("rating submitted", "user_id", id.UserID, "store_id", storeID, "value", value)

	store, err := c.api.Store(ctx, storeID)
	return store, sessionErr(err, true)
}

// CreateStore creates a store. ADMIN only.
func (c *Client) CreateStore(ctx context.Context, in StoreInput) (*Store, error) {
	if _, err := c.require(RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateStoreInput(in); err != nil {
		return nil, err
	}
	store, err := c.api.CreateStore(ctx, in)
	return store, sessionErr(err, true)
}

// UpdateStore updates the fields of in that are set. ADMIN only.
func (c *Client) UpdateStore(ctx context.Context, id string, in StoreInput) (*Store, error) {
	if _, err := c.require(RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: store id is required", ErrInvalidInput)
	}
	store, err := c.api.UpdateStore(ctx, id, in)
	return store, sessionErr(err, true)
}

func validateStoreInput(in api.StoreInput) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("%w: store name and email are required", ErrInvalidInput)
	}
	return nil
}
