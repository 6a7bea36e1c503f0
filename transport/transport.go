package transport

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RejectHook is called when a credentialed request comes back 401.
type RejectHook func(req *http.Request)

// Observer is told about every completed round trip. resp is nil when err
// is set.
type Observer func(req *http.Request, resp *http.Response, err error, elapsed time.Duration)

// Option configures a Transport.
type Option func(*Transport)

// WithHeaders shares an existing default-header set.
func WithHeaders(h *Headers) Option {
	return func(t *Transport) {
		if h != nil {
			t.headers = h
		}
	}
}

// WithRequestIDs replaces the request id generator.
func WithRequestIDs(next func() string) Option {
	return func(t *Transport) {
		if next != nil {
			t.newID = next
		}
	}
}

// OnReject installs the rejection hook.
func OnReject(hook RejectHook) Option {
	return func(t *Transport) {
		t.onReject = hook
	}
}

// WithObserver installs a round-trip observer.
func WithObserver(obs Observer) Option {
	return func(t *Transport) {
		t.observer = obs
	}
}

// Transport decorates a base RoundTripper.
type Transport struct {
	base     http.RoundTripper
	headers  *Headers
	newID    func() string
	observer Observer

	mu       sync.RWMutex
	onReject RejectHook
}

// New wraps base; nil means http.DefaultTransport.
func New(base http.RoundTripper, opts ...Option) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	t := &Transport{
		base:    base,
		headers: NewHeaders(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Headers returns the default-header set.
func (t *Transport) Headers() *Headers {
	return t.headers
}

// SetRejectHook replaces the rejection hook after construction.
func (t *Transport) SetRejectHook(hook RejectHook) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReject = hook
}

// RoundTrip implements http.RoundTripper. The caller's request is not
// modified.
//
// A 401 only counts as a rejection when the request carried an Authorization
// header; a 401 to an anonymous request (bad login credentials) is an
// ordinary failure. Requests whose context is marked Anonymous never carry
// the default Authorization header.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	explicitAuth := req.Header.Get(HeaderAuthorization)
	t.headers.apply(out.Header)
	if IsAnonymous(req.Context()) && explicitAuth == "" {
		out.Header.Del(HeaderAuthorization)
	}

	if out.Header.Get(HeaderRequestID) == "" {
		id, ok := RequestIDFromContext(req.Context())
		if !ok {
			id = t.newID()
		}
		out.Header.Set(HeaderRequestID, id)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(out)
	if t.observer != nil {
		t.observer(out, resp, err, time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && out.Header.Get(HeaderAuthorization) != "" {
		t.mu.RLock()
		hook := t.onReject
		t.mu.RUnlock()
		if hook != nil {
			hook(out)
		}
	}
	return resp, nil
}
