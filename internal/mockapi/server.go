package mockapi

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/goRate/api"
	"github.com/MrEthical07/goRate/identity"
	"github.com/MrEthical07/goRate/internal/logging"
	"github.com/MrEthical07/goRate/password"
	"github.com/MrEthical07/goRate/token"
)

var (
	errEmailTaken   = errors.New("email already registered")
	errUserNotFound = errors.New("user not found")
	errStoreMissing = errors.New("store not found")
)

// Config configures a Server.
type Config struct {
	// Secret signs HS256 tokens. Required.
	Secret   []byte
	TokenTTL time.Duration
	Logger   *slog.Logger
	// Hash sets the argon2id cost. Zero uses password.DefaultHashConfig.
	Hash password.HashConfig
}

type userRecord struct {
	id           string
	name         string
	email        string
	address      string
	role         identity.Role
	passwordHash string
	// revoked rejects tokens until the next successful login.
	revoked bool
}

type storeRecord struct {
	id      string
	name    string
	email   string
	address string
	ownerID string
	// ratings maps user id to rating value.
	ratings map[string]rating
}

type rating struct {
	id    string
	value int
}

// Server holds users, stores and ratings in memory.
type Server struct {
	mu      sync.RWMutex
	users   map[string]*userRecord
	byEmail map[string]string
	stores  map[string]*storeRecord
	order   []string

	issuer *token.Issuer
	hasher *password.Hasher
	logger *slog.Logger
	newID  func() string
}

// New creates an empty Server.
func New(cfg Config) (*Server, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("mockapi: secret is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.Hash == (password.HashConfig{}) {
		cfg.Hash = password.DefaultHashConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	issuer, err := token.NewIssuer(token.IssuerConfig{
		TTL:           cfg.TokenTTL,
		SigningMethod: token.MethodHS256,
		PrivateKey:    cfg.Secret,
		Issuer:        "storerate-mockapi",
	})
	if err != nil {
		return nil, fmt.Errorf("mockapi: %w", err)
	}
	hasher, err := password.NewHasher(cfg.Hash)
	if err != nil {
		return nil, fmt.Errorf("mockapi: %w", err)
	}

	return &Server{
		users:   make(map[string]*userRecord),
		byEmail: make(map[string]string),
		stores:  make(map[string]*storeRecord),
		issuer:  issuer,
		hasher:  hasher,
		logger:  cfg.Logger,
		newID:   uuid.NewString,
	}, nil
}

// AddUser registers a user directly, bypassing request validation.
func (s *Server) AddUser(in api.UserInput) (api.User, error) {
	if in.Role == "" {
		in.Role = identity.RoleUser
	}
	if !in.Role.Valid() {
		return api.User{}, fmt.Errorf("add user: %w", identity.ErrUnknownRole)
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return api.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(in.Email)
	if _, ok := s.byEmail[email]; ok {
		return api.User{}, errEmailTaken
	}
	u := &userRecord{
		id:           s.newID(),
		name:         in.Name,
		email:        email,
		address:      in.Address,
		role:         in.Role,
		passwordHash: hash,
	}
	s.users[u.id] = u
	s.byEmail[email] = u.id
	return s.userView(u, false), nil
}

// AddStore registers a store directly.
func (s *Server) AddStore(in api.StoreInput) (api.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.OwnerID != "" {
		if _, ok := s.users[in.OwnerID]; !ok {
			return api.Store{}, errUserNotFound
		}
	}
	st := &storeRecord{
		id:      s.newID(),
		name:    in.Name,
		email:   in.Email,
		address: in.Address,
		ownerID: in.OwnerID,
		ratings: make(map[string]rating),
	}
	s.stores[st.id] = st
	s.order = append(s.order, st.id)
	return s.storeView(st), nil
}

// Revoke makes every token of userID fail with 401 until the user logs in
// again.
func (s *Server) Revoke(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return errUserNotFound
	}
	u.revoked = true
	return nil
}

// authenticate checks credentials and issues a token.
func (s *Server) authenticate(email, pw string) (string, bool, error) {
	s.mu.RLock()
	id, ok := s.byEmail[normalizeEmail(email)]
	var u userRecord
	if ok {
		u = *s.users[id]
	}
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}

	match, err := s.hasher.Verify(pw, u.passwordHash)
	if err != nil || !match {
		return "", false, err
	}

	raw, err := s.issuer.Issue(identity.Identity{UserID: u.id, Email: u.email, Role: u.role})
	if err != nil {
		return "", false, err
	}

	s.mu.Lock()
	if rec, ok := s.users[u.id]; ok {
		rec.revoked = false
	}
	s.mu.Unlock()

	return raw, true, nil
}

// principal verifies raw and returns the identity it names.
func (s *Server) principal(raw string) (identity.Identity, bool) {
	claims, err := s.issuer.Verify(raw)
	if err != nil {
		return identity.Identity{}, false
	}
	id := claims.Identity()

	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id.UserID]
	if !ok || u.revoked {
		return identity.Identity{}, false
	}
	// Role changes take effect immediately.
	id.Role = u.role
	return id, true
}

func (s *Server) userView(u *userRecord, withStores bool) api.User {
	out := api.User{
		ID:      u.id,
		Name:    u.name,
		Email:   u.email,
		Address: u.address,
		Role:    u.role,
	}
	if withStores {
		out.Stores = []api.StoreRef{}
		for _, sid := range s.order {
			if st := s.stores[sid]; st.ownerID == u.id {
				out.Stores = append(out.Stores, api.StoreRef{ID: st.id, Name: st.name})
			}
		}
	}
	return out
}

func (s *Server) storeView(st *storeRecord) api.Store {
	out := api.Store{
		ID:      st.id,
		Name:    st.name,
		Email:   st.email,
		Address: st.address,
		Ratings: []api.Rating{},
	}
	if owner, ok := s.users[st.ownerID]; ok {
		out.Owner = &api.UserRef{ID: owner.id, Name: owner.name}
	}

	total := 0
	for uid, r := range st.ratings {
		ref := api.UserRef{ID: uid}
		if u, ok := s.users[uid]; ok {
			ref.Name = u.name
		}
		out.Ratings = append(out.Ratings, api.Rating{ID: r.id, RatingValue: r.value, User: ref})
		total += r.value
	}
	sort.Slice(out.Ratings, func(i, j int) bool {
		return out.Ratings[i].ID < out.Ratings[j].ID
	})
	if n := len(st.ratings); n > 0 {
		out.AverageRating = float64(total) / float64(n)
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
