package goRate

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MrEthical07/goRate/api"
	"github.com/MrEthical07/goRate/session"
)

var (
	// ErrNotAuthenticated is returned by operations that need a signed-in identity.
	ErrNotAuthenticated = errors.New("not signed in")
	// ErrPermissionDenied is returned when the signed-in role may not perform an operation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrSessionPending is returned while the session has not been initialized.
	ErrSessionPending = errors.New("session still loading")
	// ErrSessionRejected is returned when the server rejected the credential of
	// a signed-in session. The session has already been logged out.
	ErrSessionRejected = errors.New("session rejected by server")
	// ErrInvalidCredentials is returned when the server refuses a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrContractViolation is returned when the server issued a token the
	// client cannot decode.
	ErrContractViolation = session.ErrContractViolation
	// ErrPasswordPolicy is returned when a new password fails the local policy.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrInvalidRating is returned for rating values outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrInvalidInput is returned when a required argument is empty.
	ErrInvalidInput = errors.New("invalid input")
	// ErrClientClosed is returned after Close.
	ErrClientClosed = errors.New("client closed")
)

// APIError is the error type for non-2xx API responses.
type APIError = api.Error

// Messages returns the server-provided messages carried by err, if any.
func Messages(err error) []string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Messages
	}
	return nil
}

func isCredentialRejection(err error) bool {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// sessionErr marks an API 401 as a session rejection when the call was made
// with credentials.
func sessionErr(err error, credentialed bool) error {
	if err == nil {
		return nil
	}
	if credentialed && errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("%w: %w", ErrSessionRejected, err)
	}
	return err
}
