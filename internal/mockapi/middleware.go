package mockapi

import (
	"context"
	"net/http"

	"github.com/MrEthical07/goRate/identity"
	"github.com/MrEthical07/goRate/transport"
)

type principalKey struct{}

func withPrincipal(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, principalKey{}, id)
}

func principalFrom(ctx context.Context) identity.Identity {
	id, _ := ctx.Value(principalKey{}).(identity.Identity)
	return id
}

// requireAuth rejects requests without a valid bearer token with 401.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := transport.BearerToken(r.Header.Get(transport.HeaderAuthorization))
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		id, ok := s.principal(raw)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), id)))
	})
}

// requireRole answers 403 unless the principal holds one of roles.
func requireRole(roles ...identity.Role) func(http.Handler) http.Handler {
	allowed := identity.NewRoleSet(roles...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !principalFrom(r.Context()).In(allowed) {
				writeError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// logRequests logs one line per request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get(transport.HeaderRequestID),
		)
		next.ServeHTTP(w, r)
	})
}
