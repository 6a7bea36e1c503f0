package goRate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goRate/api"
	"github.com/MrEthical07/goRate/gate"
	"github.com/MrEthical07/goRate/identity"
	internalaudit "github.com/MrEthical07/goRate/internal/audit"
	"github.com/MrEthical07/goRate/password"
	"github.com/MrEthical07/goRate/route"
	"github.com/MrEthical07/goRate/session"
	"github.com/MrEthical07/goRate/transport"
)

// Client is the store-rating client: one session, one transport and the
// REST operations of the platform, each gated on the signed-in role.
//
// Client instances are built once by a Builder and are safe for concurrent use.
type Client struct {
	config     Config
	logger     *slog.Logger
	slot       session.Slot
	ownedRedis *redis.Client
	store      *session.Store
	transport  *transport.Transport
	api        *api.Client
	gate       *gate.Gate
	routes     *route.Table
	policy     password.Policy
	audit      *internalaudit.Dispatcher
	metrics    *Metrics

	onRejected func(SessionRejection)
	unbind     func()

	initOnce sync.Once
	rejectMu sync.Mutex
	closed   atomic.Bool
}

// Close describes the close operation and its observable behavior.
//
// Close detaches the transport from the session, flushes pending audit
// events and closes a Redis client the Builder opened itself. The persisted
// token is left in place so the next process can restore it.
func (c *Client) Close() {
	if c == nil || c.closed.Swap(true) {
		return
	}
	if c.unbind != nil {
		c.unbind()
	}
	if c.store != nil {
		c.store.Close()
	}
	if c.audit != nil {
		c.audit.Close()
	}
	if c.ownedRedis != nil {
		if err := c.ownedRedis.Close(); err != nil {
			c.logger.Warn("closing redis client", "error", err)
		}
	}
}

// AuditDropped returns how many audit events were dropped because the
// buffer was full.
func (c *Client) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot returns empty maps when metrics are disabled.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	return c.config
}

// Routes returns the frozen destination table.
func (c *Client) Routes() *route.Table {
	return c.routes
}

// Subscribe registers fn for session changes. fn is called immediately with
// the current state. The returned function unsubscribes.
func (c *Client) Subscribe(fn func(Session)) func() {
	return c.store.Subscribe(session.Listener(fn))
}

func (c *Client) ready() error {
	if c == nil || c.closed.Load() {
		return ErrClientClosed
	}
	return nil
}

// Initialize describes the initialize operation and its observable behavior.
//
// Initialize restores the persisted session. It runs once; later calls
// return the current state. A persisted token that cannot be decoded is
// discarded and the session starts signed out, never as an error.
func (c *Client) Initialize(ctx context.Context) Session {
	if c.ready() != nil {
		return Session{}
	}

	c.initOnce.Do(func() {
		c.checkSlot(ctx)
		st := c.store.Initialize(ctx)
		if !st.SignedIn() {
			return
		}
		c.metricInc(MetricSessionRestored)
		c.emitAudit(ctx, AuditSessionRestored, true, st.Identity, nil, nil)
		c.logger.Info("session restored", "user_id", st.Identity.UserID, "role", st.Identity.Role)
	})

	return c.store.Session()
}

const slotPingTimeout = 2 * time.Second

// slotPinger is implemented by slots backed by a remote store.
type slotPinger interface {
	Ping(ctx context.Context) (time.Duration, error)
}

// checkSlot reports an unreachable remote slot once at startup. The client
// still runs; sign-ins just do not survive the process.
func (c *Client) checkSlot(ctx context.Context) {
	p, ok := c.slot.(slotPinger)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, slotPingTimeout)
	defer cancel()

	latency, err := p.Ping(ctx)
	if err != nil {
		c.logger.Warn("token slot unavailable", "latency", latency, "error", err)
		return
	}
	c.logger.Debug("token slot reachable", "latency", latency)
}

func (c *Client) onRestoreDiscarded(reason error) {
	c.metricInc(MetricSessionRestoreRejected)
	c.emitAudit(context.Background(), AuditSessionRestoreRejected, false, nil, reason, nil)
	c.logger.Info("discarded persisted token", "reason", reason)
}

// Session returns a copy of the current session state.
func (c *Client) Session() Session {
	if c == nil || c.store == nil {
		return Session{}
	}
	return c.store.Session()
}

// Identity returns the signed-in identity.
func (c *Client) Identity() (Identity, bool) {
	st := c.Session()
	if !st.SignedIn() {
		return Identity{}, false
	}
	return *st.Identity, true
}

// Login describes the login operation and its observable behavior.
//
// Login exchanges credentials for a token, decodes it and persists it. A
// refused login returns ErrInvalidCredentials with the server messages
// attached; a token the client cannot decode returns ErrContractViolation
// and leaves the previous session untouched.
func (c *Client) Login(ctx context.Context, email, pw string) (Identity, error) {
	if err := c.ready(); err != nil {
		return Identity{}, err
	}
	if strings.TrimSpace(email) == "" || pw == "" {
		return Identity{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	raw, err := c.api.Login(ctx, api.Credentials{Email: strings.TrimSpace(email), Password: pw})
	if err != nil {
		if isCredentialRejection(err) {
			err = fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		c.metricInc(MetricLoginFailure)
		c.emitAudit(ctx, AuditLoginFailed, false, nil, err, nil)
		return Identity{}, err
	}

	id, err := c.store.Login(ctx, raw)
	if err != nil {
		if errors.Is(err, ErrContractViolation) {
			c.metricInc(MetricLoginContractViolation)
			c.logger.Error("login returned an undecodable token", "error", err)
		} else {
			c.metricInc(MetricLoginFailure)
		}
		c.emitAudit(ctx, AuditLoginFailed, false, nil, err, nil)
		return Identity{}, err
	}

	c.metricInc(MetricLoginSuccess)
	c.emitAudit(ctx, AuditLogin, true, &id, nil, nil)
	c.logger.Info("signed in", "user_id", id.UserID, "role", id.Role)

	return id, nil
}

// Signup registers a USER account. It does not sign in.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	if err := c.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if err := c.policy.Validate(req.Password); err != nil {
		c.metricInc(MetricPasswordPolicyRejected)
		return fmt.Errorf("%w: %w", ErrPasswordPolicy, err)
	}

	if err := c.api.Signup(ctx, req); err != nil {
		c.emitAudit(ctx, AuditSignup, false, nil, err, nil)
		return err
	}

	c.metricInc(MetricSignup)
	c.emitAudit(ctx, AuditSignup, true, nil, nil, nil)
	return nil
}

// Logout describes the logout operation and its observable behavior.
//
// Logout always ends the in-memory session, including when clearing the
// persisted token fails; that failure is returned. Logging out while
// signed out is a no-op.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}

	prev := c.store.Session()
	err := c.store.Logout(ctx)
	if prev.SignedIn() {
		c.metricInc(MetricLogout)
		c.emitAudit(ctx, AuditLogout, err == nil, prev.Identity, err, nil)
		c.logger.Info("signed out", "user_id", prev.Identity.UserID)
	}
	return err
}

// Authorize decides whether the current session may enter a view that
// requires one of roles. No roles means any signed-in identity.
func (c *Client) Authorize(roles ...Role) Decision {
	if c.ready() != nil {
		return DecisionDenyRedirectLogin
	}
	return c.gate.Check(roles...)
}

// Navigate resolves p against the route table for the current session.
func (c *Client) Navigate(ctx context.Context, p string) (Outcome, error) {
	if err := c.ready(); err != nil {
		return Outcome{}, err
	}

	st := c.store.Session()
	out, err := c.routes.Resolve(p, st)
	if err != nil {
		return Outcome{}, err
	}
	c.recordDecision(out.Decision)

	if out.Decision.Denied() {
		var id *identity.Identity
		if st.SignedIn() {
			id = st.Identity
		}
		c.emitAudit(ctx, AuditNavigationDenied, false, id, nil, map[string]string{
			"path":     route.Clean(p),
			"decision": out.Decision.String(),
			"target":   out.Target,
		})
	}

	return out, nil
}

func (c *Client) onDecision(_ identity.RoleSet, _ session.State, d Decision) {
	c.recordDecision(d)
}

func (c *Client) recordDecision(d Decision) {
	switch d {
	case DecisionAllow:
		c.metricInc(MetricGateAllow)
	case DecisionDenyRedirectLogin:
		c.metricInc(MetricGateDenyLogin)
	case DecisionDenyRedirectHome:
		c.metricInc(MetricGateDenyHome)
	default:
		c.metricInc(MetricGatePending)
	}
}

// require returns the signed-in identity when it holds one of roles.
func (c *Client) require(roles ...Role) (Identity, error) {
	if err := c.ready(); err != nil {
		return Identity{}, err
	}

	required := identity.NewRoleSet(roles...)
	st := c.store.Session()
	d := gate.Authorize(st, required)
	c.recordDecision(d)

	switch d {
	case DecisionAllow:
		return *st.Identity, nil
	case DecisionPending:
		return Identity{}, ErrSessionPending
	case DecisionDenyRedirectLogin:
		return Identity{}, ErrNotAuthenticated
	default:
		return Identity{}, fmt.Errorf("%w: requires %s", ErrPermissionDenied, required)
	}
}

// -------- TRANSPORT HOOKS --------

func (c *Client) observeRoundTrip(req *http.Request, resp *http.Response, err error, elapsed time.Duration) {
	c.metricInc(MetricAPIRequest)
	if c.metrics != nil {
		c.metrics.Observe(MetricAPILatency, elapsed)
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if err != nil || status >= http.StatusBadRequest {
		c.metricInc(MetricAPIError)
	}

	c.logger.Debug("api request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", status,
		"elapsed", elapsed,
		"request_id", req.Header.Get(transport.HeaderRequestID),
	)
}

// onSessionRejected signs out after the server answered 401 to a request
// carrying the current credential. Requests still carrying an older
// credential do not end a newer session.
func (c *Client) onSessionRejected(req *http.Request) {
	c.rejectMu.Lock()
	defer c.rejectMu.Unlock()

	st := c.store.Session()
	if !st.SignedIn() {
		return
	}
	tok, ok := transport.BearerToken(req.Header.Get(transport.HeaderAuthorization))
	if !ok || tok != st.Credential() {
		return
	}

	id := *st.Identity
	ctx := context.WithoutCancel(req.Context())
	if err := c.store.Logout(ctx); err != nil {
		c.logger.Warn("clearing rejected token", "error", err)
	}

	rejection := SessionRejection{
		UserID:    id.UserID,
		Role:      id.Role,
		Method:    req.Method,
		Path:      req.URL.Path,
		RequestID: req.Header.Get(transport.HeaderRequestID),
		Redirect:  route.Login,
	}

	c.metricInc(MetricSessionRejected)
	c.emitAudit(transport.WithRequestID(ctx, rejection.RequestID), AuditSessionRejected, false, &id, ErrSessionRejected, map[string]string{
		"method": req.Method,
		"path":   req.URL.Path,
	})
	c.logger.Warn("session rejected by server, signed out",
		"user_id", id.UserID,
		"method", req.Method,
		"path", req.URL.Path,
	)

	if c.onRejected != nil {
		c.onRejected(rejection)
	}
}
