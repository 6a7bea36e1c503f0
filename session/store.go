package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/MrEthical07/goRate/identity"
	"github.com/MrEthical07/goRate/token"
)

// ErrContractViolation is returned by Login when the server handed out a
// token the client cannot decode. It is fatal to the login attempt and is
// never absorbed the way a bad token at startup is.
var ErrContractViolation = errors.New("server issued an undecodable credential token")

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("session store closed")

// ErrTokenExpired is passed to the discard hook when an expired token is
// dropped at startup.
var ErrTokenExpired = errors.New("persisted token expired")

// Listener receives every published state, synchronously and in
// subscription order.
type Listener func(State)

// DiscardHook is told why a persisted token was dropped during Initialize.
type DiscardHook func(reason error)

type subscriber struct {
	id int
	fn Listener
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the structured logger. Tokens are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDiscardExpired makes Initialize drop a persisted token whose exp claim
// has passed, allowing leeway for clock skew. Login never applies it.
func WithDiscardExpired(leeway time.Duration) Option {
	return func(s *Store) {
		s.discardExpired = true
		s.leeway = leeway
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// OnDiscard registers a hook invoked when Initialize drops a persisted token.
func OnDiscard(hook DiscardHook) Option {
	return func(s *Store) {
		s.onDiscard = hook
	}
}

// Store is the session store. It is the sole writer of its Slot.
//
// Concurrent reads are safe. Login and Logout are not meant to interleave:
// the client supports one signed-in identity at a time and callers serialize
// writes.
type Store struct {
	slot           Slot
	logger         *slog.Logger
	discardExpired bool
	leeway         time.Duration
	now            func() time.Time
	onDiscard      DiscardHook

	mu          sync.RWMutex
	state       State
	initialized bool
	closed      bool
	nextID      int
	subscribers []subscriber
}

// NewStore creates a store over slot. The store starts in the loading state.
func NewStore(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		state:  loadingState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize restores the session from the slot. It runs once; later calls
// return the current state untouched.
//
// It never fails: a missing token, an unreadable slot, a malformed token and
// (with WithDiscardExpired) an expired token all end in the signed-out state.
// Malformed and expired tokens are also removed from the slot.
func (s *Store) Initialize(ctx context.Context) State {
	s.mu.Lock()
	if s.initialized || s.closed {
		st := s.state.clone()
		s.mu.Unlock()
		return st
	}
	s.initialized = true
	s.mu.Unlock()

	raw, err := s.slot.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrEmptySlot) {
			s.logger.Warn("session restore: token slot unreadable", "error", err)
		}
		return s.publish(signedOutState())
	}

	claims, err := token.Decode(raw)
	if err != nil {
		s.logger.Debug("session restore: discarding malformed token", "error", err)
		return s.discard(ctx, err)
	}
	if s.discardExpired && claims.Expired(s.now(), s.leeway) {
		s.logger.Debug("session restore: discarding expired token", "subject", claims.Subject)
		return s.discard(ctx, ErrTokenExpired)
	}

	id := claims.Identity()
	s.logger.Debug("session restored", "user_id", id.UserID, "role", id.Role)
	return s.publish(signedInState(id, raw))
}

func (s *Store) discard(ctx context.Context, reason error) State {
	if err := s.slot.Clear(ctx); err != nil {
		s.logger.Warn("session restore: clearing token slot failed", "error", err)
	}
	if s.onDiscard != nil {
		s.onDiscard(reason)
	}
	return s.publish(signedOutState())
}

// Login installs a freshly issued token. The caller has already confirmed
// authentication with the server.
//
// The token is decoded before anything is written, so a token the client
// cannot read is never persisted. On success the token is persisted and then
// the new identity is published; both have happened when Login returns.
func (s *Store) Login(ctx context.Context, raw string) (identity.Identity, error) {
	if s.isClosed() {
		return identity.Identity{}, ErrClosed
	}

	claims, err := token.Decode(raw)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%w: %w", ErrContractViolation, err)
	}

	if err := s.slot.Save(ctx, raw); err != nil {
		return identity.Identity{}, fmt.Errorf("persist token: %w", err)
	}

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	id := claims.Identity()
	s.publish(signedInState(id, raw))
	return id, nil
}

// Logout removes the persisted token and clears the identity. It is
// idempotent and needs no network round-trip. The in-memory state is cleared
// even when the slot cannot be emptied; that error is returned for
// reporting.
func (s *Store) Logout(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}

	clearErr := s.slot.Clear(ctx)

	s.mu.Lock()
	s.initialized = true
	changed := s.state.Identity != nil || s.state.Loading
	s.mu.Unlock()

	if changed {
		s.publish(signedOutState())
	}

	if clearErr != nil {
		return fmt.Errorf("clear token: %w", clearErr)
	}
	return nil
}

// Session returns a copy of the current state.
func (s *Store) Session() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers fn and immediately calls it with the current state, so
// a late subscriber never misses the restored session. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	current := s.state.clone()
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Close tears the store down: subscribers are dropped and further writes
// fail. The persisted token is left in place for the next start.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subscribers = nil
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Store) publish(next State) State {
	s.mu.Lock()
	s.state = next
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next.clone())
	}
	return next.clone()
}
