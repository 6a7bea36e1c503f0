package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrEthical07/goRate/api"
	"github.com/MrEthical07/goRate/identity"
	"github.com/MrEthical07/goRate/password"
)

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type rateRequest struct {
	StoreID     string `json:"storeId"`
	RatingValue int    `json:"ratingValue"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in api.Credentials
	if !decode(w, r, &in) {
		return
	}
	raw, ok, err := s.authenticate(in.Email, in.Password)
	if err != nil {
		s.logger.Error("login", "error", err)
		writeError(w, http.StatusInternalServerError)
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusCreated, loginResponse{AccessToken: raw})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in api.Signup
	if !decode(w, r, &in) {
		return
	}
	user := api.UserInput{
		Name:     in.Name,
		Email:    in.Email,
		Address:  in.Address,
		Password: in.Password,
		Role:     identity.RoleUser,
	}
	if problems := validateUser(user, true); len(problems) > 0 {
		writeError(w, http.StatusBadRequest, problems...)
		return
	}
	created, err := s.AddUser(user)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var in changePasswordRequest
	if !decode(w, r, &in) {
		return
	}
	if err := password.DefaultPolicy().Validate(in.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := principalFrom(r.Context())
	s.mu.RLock()
	u, ok := s.users[id.UserID]
	var current string
	if ok {
		current = u.passwordHash
	}
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, errUserNotFound.Error())
		return
	}

	match, err := s.hasher.Verify(in.OldPassword, current)
	if err != nil || !match {
		writeError(w, http.StatusBadRequest, "Old password is incorrect")
		return
	}
	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	u.passwordHash = hash
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, s.userView(u, false))
	}
	sortUsers(out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	me := principalFrom(r.Context())
	if me.Role != identity.RoleAdmin && me.UserID != id {
		writeError(w, http.StatusForbidden, "insufficient role")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, errUserNotFound.Error())
		return
	}
	withStores := strings.Contains(r.URL.Query().Get("relations"), "stores")
	writeJSON(w, http.StatusOK, s.userView(u, withStores))
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in api.UserInput
	if !decode(w, r, &in) {
		return
	}
	if problems := validateUser(in, true); len(problems) > 0 {
		writeError(w, http.StatusBadRequest, problems...)
		return
	}
	created, err := s.AddUser(in)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in api.UserInput
	if !decode(w, r, &in) {
		return
	}
	if problems := validateUser(in, false); len(problems) > 0 {
		writeError(w, http.StatusBadRequest, problems...)
		return
	}

	var hash string
	if in.Password != "" {
		h, err := s.hasher.Hash(in.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError)
			return
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, errUserNotFound.Error())
		return
	}
	if in.Email != "" {
		email := normalizeEmail(in.Email)
		if other, taken := s.byEmail[email]; taken && other != u.id {
			writeError(w, http.StatusConflict, errEmailTaken.Error())
			return
		}
		delete(s.byEmail, u.email)
		u.email = email
		s.byEmail[email] = u.id
	}
	if in.Name != "" {
		u.name = in.Name
	}
	if in.Address != "" {
		u.address = in.Address
	}
	if in.Role != "" {
		u.role = in.Role
	}
	if hash != "" {
		u.passwordHash = hash
	}
	writeJSON(w, http.StatusOK, s.userView(u, false))
}

func (s *Server) handleListStores(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("name")))
	address := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("address")))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.Store, 0, len(s.order))
	for _, id := range s.order {
		st := s.stores[id]
		if !matchStore(st, name, address) {
			continue
		}
		out = append(out, s.storeView(st))
	}
	writeJSON(w, http.StatusOK, out)
}

// matchStore applies the list filters. With both filters set a store matches
// when either field matches.
func matchStore(st *storeRecord, name, address string) bool {
	if name == "" && address == "" {
		return true
	}
	nameHit := name != "" && strings.Contains(strings.ToLower(st.name), name)
	addrHit := address != "" && strings.Contains(strings.ToLower(st.address), address)
	return nameHit || addrHit
}

func (s *Server) handleGetStore(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stores[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, errStoreMissing.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.storeView(st))
}

func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	var in api.StoreInput
	if !decode(w, r, &in) {
		return
	}
	if problems := validateStore(in, true); len(problems) > 0 {
		writeError(w, http.StatusBadRequest, problems...)
		return
	}
	created, err := s.AddStore(in)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateStore(w http.ResponseWriter, r *http.Request) {
	var in api.StoreInput
	if !decode(w, r, &in) {
		return
	}
	if problems := validateStore(in, false); len(problems) > 0 {
		writeError(w, http.StatusBadRequest, problems...)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stores[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, errStoreMissing.Error())
		return
	}
	if in.OwnerID != "" {
		if _, ok := s.users[in.OwnerID]; !ok {
			writeError(w, http.StatusNotFound, errUserNotFound.Error())
			return
		}
		st.ownerID = in.OwnerID
	}
	if in.Name != "" {
		st.name = in.Name
	}
	if in.Email != "" {
		st.email = in.Email
	}
	if in.Address != "" {
		st.address = in.Address
	}
	writeJSON(w, http.StatusOK, s.storeView(st))
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if principalFrom(r.Context()).UserID != userID {
		writeError(w, http.StatusForbidden, "cannot rate on behalf of another user")
		return
	}

	var in rateRequest
	if !decode(w, r, &in) {
		return
	}
	if in.RatingValue < 1 || in.RatingValue > 5 {
		writeError(w, http.StatusBadRequest, "ratingValue must be between 1 and 5")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stores[in.StoreID]
	if !ok {
		writeError(w, http.StatusNotFound, errStoreMissing.Error())
		return
	}
	// One rating per user and store; a new submission replaces the old value.
	prev, exists := st.ratings[userID]
	rid := prev.id
	if !exists {
		rid = s.newID()
	}
	st.ratings[userID] = rating{id: rid, value: in.RatingValue}

	writeJSON(w, http.StatusCreated, api.Rating{
		ID:          rid,
		RatingValue: in.RatingValue,
		User:        api.UserRef{ID: userID, Name: s.users[userID].name},
	})
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, errUserNotFound), errors.Is(err, errStoreMissing):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, identity.ErrUnknownRole):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("mockapi", "error", err)
		writeError(w, http.StatusInternalServerError)
	}
}
