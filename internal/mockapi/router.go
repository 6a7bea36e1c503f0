package mockapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrEthical07/goRate/identity"
)

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/signup", s.handleSignup)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Patch("/auth/change-password", s.handleChangePassword)

		r.Get("/stores", s.handleListStores)
		r.Get("/stores/{id}", s.handleGetStore)
		r.Get("/users/{id}", s.handleGetUser)

		r.With(requireRole(identity.RoleUser)).Post("/ratings/{userId}", s.handleRate)

		r.Group(func(r chi.Router) {
			r.Use(requireRole(identity.RoleAdmin))

			r.Get("/users", s.handleListUsers)
			r.Post("/users", s.handleCreateUser)
			r.Patch("/users/{id}", s.handleUpdateUser)
			r.Post("/stores", s.handleCreateStore)
			r.Patch("/stores/{id}", s.handleUpdateStore)
		})
	})

	return r
}
