package transport

import (
	"net/http"
	"strings"
	"sync"
)

// HeaderAuthorization and HeaderRequestID are the headers the package manages.
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
)

// Headers is a concurrency-safe set of default request headers.
type Headers struct {
	mu sync.RWMutex
	h  http.Header
}

// NewHeaders returns an empty header set.
func NewHeaders() *Headers {
	return &Headers{h: make(http.Header)}
}

func (d *Headers) Set(key, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.h.Set(key, value)
}

func (d *Headers) Get(key string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.h.Get(key)
}

func (d *Headers) Del(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.h.Del(key)
}

// Snapshot returns a copy of the current defaults.
func (d *Headers) Snapshot() http.Header {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.h.Clone()
}

// apply copies defaults into h without overriding values already present.
func (d *Headers) apply(h http.Header) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for k, vs := range d.h {
		if _, set := h[k]; set {
			continue
		}
		h[k] = append([]string(nil), vs...)
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
