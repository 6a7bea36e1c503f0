package transport

import "context"

type requestIDContextKey struct{}

type anonymousContextKey struct{}

// WithRequestID pins the X-Request-ID used for requests made with ctx.
// Without it each request gets a fresh random id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

// RequestIDFromContext returns the id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id, id != ""
}

// Anonymous marks requests made with ctx as credential-free: the default
// Authorization header is not added, so a 401 answer is never reported as
// a session rejection. Login and signup use it.
func Anonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousContextKey{}, true)
}

// IsAnonymous reports whether ctx was marked by Anonymous.
func IsAnonymous(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	anon, _ := ctx.Value(anonymousContextKey{}).(bool)
	return anon
}
