package goRate

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/goRate/api"
	"github.com/MrEthical07/goRate/internal/mockapi"
	"github.com/MrEthical07/goRate/password"
	"github.com/MrEthical07/goRate/route"
	"github.com/MrEthical07/goRate/session"
	"github.com/MrEthical07/goRate/token"
	"github.com/MrEthical07/goRate/transport"
)

const (
	adminEmail = "admin@storerate.local"
	ownerEmail = "owner@storerate.local"
	userEmail  = "user@storerate.local"
)

type testEnv struct {
	server *mockapi.Server
	url    string
	slot   *session.MemorySlot
	client *Client
	events *ChannelSink
	reject chan SessionRejection
}

func newMockServer(t *testing.T) (*mockapi.Server, string) {
	t.Helper()

	s, err := mockapi.New(mockapi.Config{Secret: []byte("client-test-secret-0123456789abcdef")})
	require.NoError(t, err)
	require.NoError(t, s.SeedDemo())

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts.URL
}

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.API.BaseURL = baseURL
	cfg.Session.Backend = BackendMemory
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false
	return cfg
}

// newTestEnv builds a client against a seeded mock API. seed, when non-empty,
// is placed in the token slot before Initialize.
func newTestEnv(t *testing.T, seed string) *testEnv {
	t.Helper()

	server, url := newMockServer(t)
	env := &testEnv{
		server: server,
		url:    url,
		slot:   session.NewMemorySlot(seed),
		events: NewChannelSink(64),
		reject: make(chan SessionRejection, 1),
	}

	c, err := New().
		WithConfig(testConfig(url)).
		WithSlot(env.slot).
		WithAuditSink(env.events).
		WithOnSessionRejected(func(r SessionRejection) { env.reject <- r }).
		Build()
	require.NoError(t, err)
	t.Cleanup(c.Close)

	env.client = c
	return env
}

func (e *testEnv) login(t *testing.T, email string) Identity {
	t.Helper()

	ctx := context.Background()
	e.client.Initialize(ctx)
	id, err := e.client.Login(ctx, email, mockapi.DemoPassword)
	require.NoError(t, err)
	return id
}

func (e *testEnv) nextEvent(t *testing.T, eventType string) AuditEvent {
	t.Helper()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-e.events.Events():
			if ev.EventType == eventType {
				return ev
			}
		case <-timeout:
			t.Fatalf("no %s audit event", eventType)
			return AuditEvent{}
		}
	}
}

func issueToken(t *testing.T, url, email string) string {
	t.Helper()

	raw, err := api.New(url, nil).Login(context.Background(), api.Credentials{Email: email, Password: mockapi.DemoPassword})
	require.NoError(t, err)
	return raw
}

func TestInitializeRestoresPersistedSession(t *testing.T) {
	_, url := newMockServer(t)
	raw := issueToken(t, url, ownerEmail)

	c, err := New().WithConfig(testConfig(url)).WithSlot(session.NewMemorySlot(raw)).Build()
	require.NoError(t, err)
	defer c.Close()

	assert.True(t, c.Session().Loading)

	st := c.Initialize(context.Background())
	require.True(t, st.SignedIn())
	assert.Equal(t, RoleOwner, st.Identity.Role)
	assert.Equal(t, ownerEmail, st.Identity.Email)
	assert.Equal(t, uint64(1), c.MetricsSnapshot().Counters[MetricSessionRestored])

	// The restored token is attached to outgoing requests.
	stores, err := c.SearchStores(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, stores, 3)
}

func TestInitializeDiscardsMalformedToken(t *testing.T) {
	env := newTestEnv(t, "garbage")

	st := env.client.Initialize(context.Background())
	assert.False(t, st.Loading)
	assert.Nil(t, st.Identity)

	stored, err := env.slot.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrEmptySlot)
	assert.Empty(t, stored)

	assert.Equal(t, uint64(1), env.client.MetricsSnapshot().Counters[MetricSessionRestoreRejected])
	ev := env.nextEvent(t, AuditSessionRestoreRejected)
	assert.Equal(t, string(auditErrMalformedToken), ev.Error)
}

func TestLoginOwnerRoutesToOwnerView(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.login(t, ownerEmail)

	assert.Equal(t, RoleOwner, id.Role)
	assert.Equal(t, DecisionAllow, env.client.Authorize(RoleOwner))
	assert.Equal(t, DecisionDenyRedirectHome, env.client.Authorize(RoleAdmin))
	assert.Equal(t, DecisionAllow, env.client.Authorize())

	ctx := context.Background()
	out, err := env.client.Navigate(ctx, "/admin")
	require.NoError(t, err)
	assert.Equal(t, Outcome{Decision: DecisionDenyRedirectHome, Target: route.Owner}, out)

	out, err = env.client.Navigate(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, route.Owner, out.Target)

	out, err = env.client.Navigate(ctx, "/login")
	require.NoError(t, err)
	assert.Equal(t, DecisionDenyRedirectHome, out.Decision)

	ev := env.nextEvent(t, AuditNavigationDenied)
	assert.Equal(t, "/admin", ev.Metadata["path"])
	assert.Equal(t, id.UserID, ev.UserID)

	stored, err := env.slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, env.client.Session().Credential(), stored)
}

func TestLoginRejectedKeepsSessionSignedOut(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.client.Initialize(ctx)

	_, err := env.client.Login(ctx, userEmail, "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotErrorIs(t, err, ErrSessionRejected)
	assert.Equal(t, []string{"Invalid credentials"}, Messages(err))
	assert.False(t, env.client.Session().SignedIn())
	assert.Equal(t, uint64(1), env.client.MetricsSnapshot().Counters[MetricLoginFailure])

	ev := env.nextEvent(t, AuditLoginFailed)
	assert.Equal(t, string(auditErrInvalidCredentials), ev.Error)

	select {
	case r := <-env.reject:
		t.Fatalf("anonymous login failure reported as rejection: %+v", r)
	default:
	}
}

func TestFailedReloginKeepsCurrentSession(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.login(t, userEmail)
	ctx := context.Background()
	before := env.client.Session().Credential()

	_, err := env.client.Login(ctx, userEmail, "wrong-password-123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotErrorIs(t, err, ErrSessionRejected)

	st := env.client.Session()
	require.True(t, st.SignedIn())
	assert.Equal(t, id.UserID, st.Identity.UserID)
	assert.Equal(t, before, st.Credential())

	stored, err := env.slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, stored)
	assert.Equal(t, "Bearer "+before, env.client.transport.Headers().Get(transport.HeaderAuthorization))
	assert.Zero(t, env.client.MetricsSnapshot().Counters[MetricSessionRejected])

	select {
	case r := <-env.reject:
		t.Fatalf("failed login ended the session: %+v", r)
	default:
	}

	_, err = env.client.SearchStores(ctx, "")
	require.NoError(t, err)
}

func TestLoginRequiresCredentials(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.client.Login(context.Background(), " ", "x")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginWithUndecodableTokenIsContractViolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"not-a-token"}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New().WithConfig(testConfig(srv.URL)).WithSlot(session.NewMemorySlot("")).Build()
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	c.Initialize(ctx)

	_, err = c.Login(ctx, userEmail, "whatever-pass")
	require.ErrorIs(t, err, ErrContractViolation)
	require.ErrorIs(t, err, token.ErrMalformed)
	assert.False(t, c.Session().SignedIn())
	assert.Equal(t, uint64(1), c.MetricsSnapshot().Counters[MetricLoginContractViolation])
}

func TestOperationsFollowSessionState(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	_, err := env.client.SearchStores(ctx, "")
	require.ErrorIs(t, err, ErrSessionPending)
	assert.Equal(t, DecisionPending, env.client.Authorize())

	env.client.Initialize(ctx)
	_, err = env.client.SearchStores(ctx, "")
	require.ErrorIs(t, err, ErrNotAuthenticated)

	out, err := env.client.Navigate(ctx, "/owner")
	require.NoError(t, err)
	assert.Equal(t, Outcome{Decision: DecisionDenyRedirectLogin, Target: route.Login}, out)

	env.login(t, userEmail)
	_, err = env.client.AdminDashboard(ctx)
	require.ErrorIs(t, err, ErrPermissionDenied)
	_, err = env.client.OwnerDashboard(ctx)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestServerRejectionSignsOut(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.login(t, userEmail)
	ctx := context.Background()

	require.NoError(t, env.server.Revoke(id.UserID))

	_, err := env.client.SearchStores(ctx, "grocery")
	require.ErrorIs(t, err, ErrSessionRejected)
	require.ErrorIs(t, err, api.ErrUnauthorized)

	assert.False(t, env.client.Session().SignedIn())
	assert.Empty(t, env.client.transport.Headers().Get(transport.HeaderAuthorization))

	_, err = env.slot.Load(ctx)
	assert.ErrorIs(t, err, session.ErrEmptySlot)

	select {
	case r := <-env.reject:
		assert.Equal(t, id.UserID, r.UserID)
		assert.Equal(t, "/stores", r.Path)
		assert.Equal(t, route.Login, r.Redirect)
		assert.NotEmpty(t, r.RequestID)
	case <-time.After(time.Second):
		t.Fatal("rejection callback not called")
	}

	assert.Equal(t, uint64(1), env.client.MetricsSnapshot().Counters[MetricSessionRejected])
	ev := env.nextEvent(t, AuditSessionRejected)
	assert.Equal(t, id.UserID, ev.UserID)

	// A follow-up call fails locally without reaching the server.
	_, err = env.client.SearchStores(ctx, "")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRateStoreValidatesAndRefetches(t *testing.T) {
	env := newTestEnv(t, "")
	env.login(t, userEmail)
	ctx := context.Background()

	stores, err := env.client.SearchStores(ctx, "hardware")
	require.NoError(t, err)
	require.Len(t, stores, 1)
	storeID := stores[0].ID

	for _, v := range []int{0, 6, -1} {
		_, err := env.client.RateStore(ctx, storeID, v)
		require.ErrorIs(t, err, ErrInvalidRating, "value %d", v)
	}

	store, err := env.client.RateStore(ctx, storeID, 5)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, store.AverageRating, 0.001)
	require.Len(t, store.Ratings, 1)
	assert.Equal(t, uint64(1), env.client.MetricsSnapshot().Counters[MetricRatingSubmitted])
}

func TestRateStoreIsForUsersOnly(t *testing.T) {
	env := newTestEnv(t, "")
	env.login(t, ownerEmail)

	_, err := env.client.RateStore(context.Background(), "any", 3)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAdminDashboardCountsRatings(t *testing.T) {
	env := newTestEnv(t, "")
	env.login(t, userEmail)
	ctx := context.Background()

	stores, err := env.client.SearchStores(ctx, "market")
	require.NoError(t, err)
	require.Len(t, stores, 2)
	for _, s := range stores {
		_, err := env.client.RateStore(ctx, s.ID, 4)
		require.NoError(t, err)
	}

	require.NoError(t, env.client.Logout(ctx))
	_, err = env.client.Login(ctx, adminEmail, mockapi.DemoPassword)
	require.NoError(t, err)

	dash, err := env.client.AdminDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, DashboardStats{Users: 3, Stores: 3, Ratings: 2}, dash.Stats)
	assert.Len(t, dash.Users, 3)

	owners, err := env.client.OwnerCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.Equal(t, ownerEmail, owners[0].Email)
}

func TestAdminCreatesStoreForNewOwner(t *testing.T) {
	env := newTestEnv(t, "")
	env.login(t, adminEmail)
	ctx := context.Background()

	_, err := env.client.CreateUser(ctx, UserInput{Name: "Short", Email: "p@storerate.local", Password: "short", Role: RoleOwner})
	require.ErrorIs(t, err, ErrPasswordPolicy)

	owner, err := env.client.CreateUser(ctx, UserInput{Name: "New Owner", Email: "new-owner@storerate.local", Password: "password123", Role: RoleOwner})
	require.NoError(t, err)

	_, err = env.client.CreateStore(ctx, StoreInput{Email: "x@storerate.local"})
	require.ErrorIs(t, err, ErrInvalidInput)

	store, err := env.client.CreateStore(ctx, StoreInput{Name: "Bakery", Email: "bakery@storerate.local", Address: "9 Oven St", OwnerID: owner.ID})
	require.NoError(t, err)

	updated, err := env.client.UpdateStore(ctx, store.ID, StoreInput{Address: "11 Oven St"})
	require.NoError(t, err)
	assert.Equal(t, "11 Oven St", updated.Address)

	user, err := env.client.UpdateUser(ctx, owner.ID, UserInput{Name: "Renamed Owner"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Owner", user.Name)

	fetched, err := env.client.User(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Owner", fetched.Name)
}

func TestOwnerDashboardSelectsFirstStore(t *testing.T) {
	env := newTestEnv(t, "")
	env.login(t, ownerEmail)

	dash, err := env.client.OwnerDashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, dash.Stores, 2)
	require.NotNil(t, dash.Selected)
	assert.Equal(t, dash.Stores[0].ID, dash.Selected.ID)
}

func TestUserDashboardSearches(t *testing.T) {
	env := newTestEnv(t, "")
	env.login(t, userEmail)

	dash, err := env.client.UserDashboard(context.Background(), "  book ")
	require.NoError(t, err)
	assert.Equal(t, "book", dash.Query)
	require.Len(t, dash.Stores, 1)
	assert.Equal(t, "Book Nook", dash.Stores[0].Name)
}

func TestChangePasswordChecksPolicyBeforeServer(t *testing.T) {
	env := newTestEnv(t, "")
	env.login(t, userEmail)
	ctx := context.Background()

	err := env.client.ChangePassword(ctx, mockapi.DemoPassword, "new-password-1", "new-password-2")
	require.ErrorIs(t, err, ErrPasswordPolicy)
	require.ErrorIs(t, err, password.ErrMismatch)

	err = env.client.ChangePassword(ctx, mockapi.DemoPassword, "short", "short")
	require.ErrorIs(t, err, password.ErrTooShort)

	err = env.client.ChangePassword(ctx, "not-the-password", "new-password-1", "new-password-1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.True(t, env.client.Session().SignedIn())

	require.NoError(t, env.client.ChangePassword(ctx, mockapi.DemoPassword, "new-password-1", "new-password-1"))
	snap := env.client.MetricsSnapshot()
	assert.Equal(t, uint64(2), snap.Counters[MetricPasswordPolicyRejected])
	assert.Equal(t, uint64(1), snap.Counters[MetricPasswordChangeFailure])
	assert.Equal(t, uint64(1), snap.Counters[MetricPasswordChangeSuccess])
}

func TestSignupThenLogin(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.client.Initialize(ctx)

	err := env.client.Signup(ctx, SignupRequest{Name: "Fresh User", Email: "fresh@storerate.local", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordPolicy)

	require.NoError(t, env.client.Signup(ctx, SignupRequest{Name: "Fresh User", Email: "fresh@storerate.local", Password: "fresh-pass-1", Address: "1 New Rd"}))
	assert.False(t, env.client.Session().SignedIn())

	id, err := env.client.Login(ctx, "fresh@storerate.local", "fresh-pass-1")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, id.Role)
}

func TestLogoutClearsAuthorizationAndSlot(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.login(t, userEmail)
	ctx := context.Background()

	assert.Equal(t, "Bearer "+env.client.Session().Credential(), env.client.transport.Headers().Get(transport.HeaderAuthorization))

	require.NoError(t, env.client.Logout(ctx))
	require.NoError(t, env.client.Logout(ctx))

	assert.Equal(t, Session{}, env.client.Session())
	assert.Empty(t, env.client.transport.Headers().Get(transport.HeaderAuthorization))
	_, err := env.slot.Load(ctx)
	assert.ErrorIs(t, err, session.ErrEmptySlot)
	assert.Equal(t, uint64(1), env.client.MetricsSnapshot().Counters[MetricLogout])

	ev := env.nextEvent(t, AuditLogout)
	assert.Equal(t, id.UserID, ev.UserID)
	assert.True(t, ev.Success)
}

func TestSubscribeSeesLoginAndLogout(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.client.Initialize(ctx)

	var seen []bool
	unsubscribe := env.client.Subscribe(func(s Session) { seen = append(seen, s.SignedIn()) })
	defer unsubscribe()

	_, err := env.client.Login(ctx, userEmail, mockapi.DemoPassword)
	require.NoError(t, err)
	require.NoError(t, env.client.Logout(ctx))

	assert.Equal(t, []bool{false, true, false}, seen)
}

func TestCloseStopsOperations(t *testing.T) {
	env := newTestEnv(t, "")
	env.login(t, userEmail)

	env.client.Close()
	env.client.Close()

	_, err := env.client.Login(context.Background(), userEmail, mockapi.DemoPassword)
	require.ErrorIs(t, err, ErrClientClosed)
	_, err = env.client.SearchStores(context.Background(), "")
	require.ErrorIs(t, err, ErrClientClosed)
	assert.Equal(t, DecisionDenyRedirectLogin, env.client.Authorize())

	// The persisted token survives Close for the next process.
	stored, err := env.slot.Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, stored)
}

func TestRequestsCarryUserAgentAndRequestID(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	c, err := New().WithConfig(testConfig(srv.URL)).WithSlot(session.NewMemorySlot("")).Build()
	require.NoError(t, err)
	defer c.Close()

	ctx := transport.WithRequestID(context.Background(), "req-42")
	c.Initialize(ctx)
	_, err = c.Login(ctx, userEmail, "whatever-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Equal(t, "storerate-client", got.Get("User-Agent"))
	assert.Equal(t, "req-42", got.Get(transport.HeaderRequestID))
	assert.Empty(t, got.Get(transport.HeaderAuthorization))

	snap := c.MetricsSnapshot()
	assert.Equal(t, uint64(1), snap.Counters[MetricAPIRequest])
	assert.Equal(t, uint64(1), snap.Counters[MetricAPIError])
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := New().WithConfig(testConfig("http://localhost:3001")).WithSlot(session.NewMemorySlot(""))

	c, err := b.Build()
	require.NoError(t, err)
	defer c.Close()

	_, err = b.Build()
	require.Error(t, err)
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig("not a url")
	_, err := New().WithConfig(cfg).Build()
	require.Error(t, err)
}

func TestBuildFileBackendUsesConfiguredPath(t *testing.T) {
	cfg := testConfig("http://localhost:3001")
	cfg.Session.Backend = BackendFile
	cfg.Session.File = t.TempDir() + "/token"

	c, err := New().WithConfig(cfg).Build()
	require.NoError(t, err)
	defer c.Close()

	fs, ok := c.slot.(*session.FileSlot)
	require.True(t, ok)
	assert.Equal(t, cfg.Session.File, fs.Path())
}

func newRedisClient(t *testing.T, cfg Config, logs *bytes.Buffer) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg.Session.Backend = BackendRedis
	cfg.Redis.Addr = mr.Addr()
	cfg.Audit.Enabled = false
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c, err := New().WithConfig(cfg).WithRedis(rdb).WithLogger(logger).Build()
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, mr
}

func TestInitializeChecksRedisSlot(t *testing.T) {
	_, url := newMockServer(t)

	var logs bytes.Buffer
	c, _ := newRedisClient(t, testConfig(url), &logs)

	c.Initialize(context.Background())
	assert.Contains(t, logs.String(), "token slot reachable")
	assert.NotContains(t, logs.String(), "token slot unavailable")
}

func TestInitializeWarnsWhenRedisSlotIsDown(t *testing.T) {
	_, url := newMockServer(t)

	var logs bytes.Buffer
	c, mr := newRedisClient(t, testConfig(url), &logs)
	mr.Close()

	st := c.Initialize(context.Background())
	assert.False(t, st.SignedIn())
	assert.Contains(t, logs.String(), "token slot unavailable")
	assert.Contains(t, logs.String(), "level=WARN")
}
