package mockapi

import (
	"encoding/json"
	"net/http"
)

// errorBody mirrors the API error envelope. Message is a string for a single
// problem and a list for validation failures.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, messages ...string) {
	body := errorBody{StatusCode: status, Error: http.StatusText(status)}
	switch len(messages) {
	case 0:
		body.Message = http.StatusText(status)
	case 1:
		body.Message = messages[0]
	default:
		body.Message = messages
	}
	writeJSON(w, status, body)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}
