package api

import (
	"context"
	"net/http"
	"net/url"
)

// Stores lists stores matching q.
func (c *Client) Stores(ctx context.Context, q StoreQuery) ([]Store, error) {
	query := url.Values{}
	if q.Name != "" {
		query.Set("name", q.Name)
	}
	if q.Address != "" {
		query.Set("address", q.Address)
	}
	var out []Store
	if err := c.do(ctx, http.MethodGet, "/stores", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Store fetches one store with its ratings and owner.
func (c *Client) Store(ctx context.Context, id string) (*Store, error) {
	var out Store
	if err := c.do(ctx, http.MethodGet, pathID("/stores", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateStore(ctx context.Context, in StoreInput) (*Store, error) {
	var out Store
	if err := c.do(ctx, http.MethodPost, "/stores", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateStore(ctx context.Context, id string, in StoreInput) (*Store, error) {
	var out Store
	if err := c.do(ctx, http.MethodPatch, pathID("/stores", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Rate submits value for storeID on behalf of userID.
func (c *Client) Rate(ctx context.Context, userID, storeID string, value int) error {
	body := ratingRequest{StoreID: storeID, RatingValue: value}
	return c.do(ctx, http.MethodPost, pathID("/ratings", userID), nil, body, nil)
}
