package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches any *Error with status 401.
	ErrUnauthorized = errors.New("api: unauthorized")
	// ErrNoToken is returned when a successful auth response has no token.
	ErrNoToken = errors.New("api: auth response carried no token")
)

// Error is a non-2xx response.
type Error struct {
	Status   int
	Messages []string
}

func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, strings.Join(e.Messages, "; "))
}

// Is lets errors.Is match ErrUnauthorized.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// errorBody is the server error envelope; message is a string or a list.
type errorBody struct {
	Message json.RawMessage `json:"message"`
}

const maxErrorBody = 64 << 10

func handleErrorResponse(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || len(body.Message) == 0 {
		return apiErr
	}

	var one string
	if err := json.Unmarshal(body.Message, &one); err == nil {
		if one != "" {
			apiErr.Messages = []string{one}
		}
		return apiErr
	}
	var many []string
	if err := json.Unmarshal(body.Message, &many); err == nil {
		apiErr.Messages = many
	}
	return apiErr
}
