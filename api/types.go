package api

import "github.com/MrEthical07/goRate/identity"

// UserRef is the short user form embedded in stores and ratings.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StoreRef is the short store form listed under a user.
type StoreRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is a user account as the API returns it.
type User struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Address string        `json:"address"`
	Role    identity.Role `json:"role"`
	Stores  []StoreRef    `json:"stores,omitempty"`
}

// Rating is one submitted rating.
type Rating struct {
	ID          string  `json:"id"`
	RatingValue int     `json:"ratingValue"`
	User        UserRef `json:"user"`
}

// Store is a rated store. Ratings and Owner are only present on detail reads.
type Store struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	AverageRating float64  `json:"averageRating"`
	Ratings       []Rating `json:"ratings,omitempty"`
	Owner         *UserRef `json:"owner,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup is the self-registration request body.
type Signup struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

// UserInput creates or updates a user. An empty Password leaves the current
// one unchanged on update.
type UserInput struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Address  string        `json:"address"`
	Password string        `json:"password,omitempty"`
	Role     identity.Role `json:"role,omitempty"`
}

// StoreInput creates or updates a store. An empty OwnerID leaves the store
// without an owner.
type StoreInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	OwnerID string `json:"ownerId,omitempty"`
}

// StoreQuery filters the store list. Empty fields are not sent.
type StoreQuery struct {
	Name    string
	Address string
}

// PasswordChange is the change-password request body.
type PasswordChange struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type ratingRequest struct {
	StoreID     string `json:"storeId"`
	RatingValue int    `json:"ratingValue"`
}

// tokenResponse accepts both spellings seen from the auth endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
}

func (r tokenResponse) value() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}
