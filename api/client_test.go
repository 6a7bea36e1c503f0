package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrEthical07/goRate/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.Client())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, Credentials{Email: "a@b.com", Password: "secret123"}, creds)
		writeJSON(w, http.StatusCreated, map[string]string{"access_token": "h.p.s"})
	})

	tok, err := c.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "h.p.s", tok)
}

func TestLoginTokenFallbackAndMissing(t *testing.T) {
	body := map[string]string{"token": "x.y.z"}
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, body)
	})

	tok, err := c.Login(context.Background(), Credentials{})
	require.NoError(t, err)
	assert.Equal(t, "x.y.z", tok)

	body = map[string]string{}
	_, err = c.Login(context.Background(), Credentials{})
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   any
		want   []string
	}{
		{"single", http.StatusBadRequest, map[string]any{"message": "Email already exists"}, []string{"Email already exists"}},
		{"list", http.StatusBadRequest, map[string]any{"message": []string{"name too short", "email must be an email"}}, []string{"name too short", "email must be an email"}},
		{"no message", http.StatusInternalServerError, map[string]any{"error": "boom"}, nil},
		{"not json", http.StatusBadGateway, "<html>", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				if s, ok := tc.body.(string); ok {
					w.WriteHeader(tc.status)
					_, _ = w.Write([]byte(s))
					return
				}
				writeJSON(w, tc.status, tc.body)
			})

			err := c.Signup(context.Background(), Signup{Name: "n"})
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.want, apiErr.Messages)
			assert.NotErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestUnauthorizedMatchesSentinel(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
	})

	_, err := c.Users(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestStoresQuery(t *testing.T) {
	var gotQuery string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stores", r.URL.Path)
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, []Store{{ID: "s1", Name: "Corner Shop", AverageRating: 4.5}})
	})

	stores, err := c.Stores(context.Background(), StoreQuery{Name: "corner shop", Address: "corner shop"})
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, 4.5, stores[0].AverageRating)
	assert.Equal(t, "address=corner+shop&name=corner+shop", gotQuery)

	_, err = c.Stores(context.Background(), StoreQuery{})
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestStoreDetails(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stores/s%2F1", r.URL.RawPath)
		writeJSON(w, http.StatusOK, Store{
			ID:      "s/1",
			Ratings: []Rating{{ID: "r1", RatingValue: 5, User: UserRef{ID: "u1", Name: "Ann"}}},
			Owner:   &UserRef{ID: "o1", Name: "Olga"},
		})
	})

	store, err := c.Store(context.Background(), "s/1")
	require.NoError(t, err)
	require.Len(t, store.Ratings, 1)
	assert.Equal(t, "Ann", store.Ratings[0].User.Name)
	assert.Equal(t, "o1", store.Owner.ID)
}

func TestUserWithStores(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/o1", r.URL.Path)
		assert.Equal(t, "stores", r.URL.Query().Get("relations"))
		writeJSON(w, http.StatusOK, User{ID: "o1", Role: identity.RoleOwner, Stores: []StoreRef{{ID: "s1"}}})
	})

	u, err := c.User(context.Background(), "o1", true)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleOwner, u.Role)
	assert.Equal(t, []StoreRef{{ID: "s1"}}, u.Stores)
}

func TestWritesUseExpectedMethods(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	var bodies []map[string]any
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		var m map[string]any
		_ = json.NewDecoder(r.Body).Decode(&m)
		bodies = append(bodies, m)
		writeJSON(w, http.StatusOK, map[string]string{"id": "x"})
	})
	ctx := context.Background()

	_, err := c.CreateUser(ctx, UserInput{Name: "n", Email: "e", Address: "a", Password: "p4ssword"})
	require.NoError(t, err)
	_, err = c.UpdateUser(ctx, "u1", UserInput{Name: "n"})
	require.NoError(t, err)
	_, err = c.CreateStore(ctx, StoreInput{Name: "s", OwnerID: "o1"})
	require.NoError(t, err)
	_, err = c.UpdateStore(ctx, "s1", StoreInput{Name: "s"})
	require.NoError(t, err)
	require.NoError(t, c.Rate(ctx, "u1", "s1", 4))
	require.NoError(t, c.ChangePassword(ctx, PasswordChange{OldPassword: "a", NewPassword: "b"}))

	assert.Equal(t, []call{
		{http.MethodPost, "/users"},
		{http.MethodPatch, "/users/u1"},
		{http.MethodPost, "/stores"},
		{http.MethodPatch, "/stores/s1"},
		{http.MethodPost, "/ratings/u1"},
		{http.MethodPatch, "/auth/change-password"},
	}, calls)

	assert.NotContains(t, bodies[1], "password", "empty password is not sent on update")
	assert.Equal(t, "o1", bodies[2]["ownerId"])
	assert.NotContains(t, bodies[3], "ownerId")
	assert.Equal(t, map[string]any{"storeId": "s1", "ratingValue": float64(4)}, bodies[4])
	assert.Equal(t, map[string]any{"oldPassword": "a", "newPassword": "b"}, bodies[5])
}

func TestConnectionAndCancellation(t *testing.T) {
	c := New("http://127.0.0.1:1", nil)
	_, err := c.Users(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot connect to API")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Users(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInvalidResponseBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{"))
	})
	_, err := c.Store(context.Background(), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid response from API")
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("", nil).BaseURL())
	assert.Equal(t, "http://api", New("http://api/", nil).BaseURL())
}
