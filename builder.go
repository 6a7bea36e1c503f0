package goRate

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goRate/api"
	"github.com/MrEthical07/goRate/gate"
	"github.com/MrEthical07/goRate/internal/logging"
	"github.com/MrEthical07/goRate/password"
	"github.com/MrEthical07/goRate/route"
	"github.com/MrEthical07/goRate/session"
	"github.com/MrEthical07/goRate/transport"
)

// Builder assembles a Client. A Builder builds at most one Client.
type Builder struct {
	config Config
	slot   session.Slot
	redis  redis.UniversalClient
	logger *slog.Logger
	base   http.RoundTripper
	clock  func() time.Time

	auditSink  AuditSink
	onRejected func(SessionRejection)
	policy     *password.Policy

	built bool
}

// New describes the new operation and its observable behavior.
//
// New returns a Builder carrying the default configuration. Nothing is
// allocated beyond the Builder until Build.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithSlot persists the token in slot, overriding the configured backend.
func (b *Builder) WithSlot(slot session.Slot) *Builder {
	b.slot = slot
	return b
}

// WithRedis supplies the client used by the redis backend. A client given
// here is not closed by Client.Close.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithLogger sets the logger. Without one the client logs nothing.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithBaseTransport sets the RoundTripper beneath the client's transport.
func (b *Builder) WithBaseTransport(rt http.RoundTripper) *Builder {
	b.base = rt
	return b
}

// WithAuditSink sets the audit destination. Audit must also be enabled in
// the configuration.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithOnSessionRejected registers fn to be called after the server rejected
// the session and the client signed out. fn runs on the goroutine of the
// failing call.
func (b *Builder) WithOnSessionRejected(fn func(SessionRejection)) *Builder {
	b.onRejected = fn
	return b
}

// WithPasswordPolicy replaces the local password policy.
func (b *Builder) WithPasswordPolicy(p password.Policy) *Builder {
	b.policy = &p
	return b
}

// WithClock sets the time source used for token expiry checks.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build validates the configuration, opens the token slot and wires the
// session store, transport, API client and gate together. The session is
// not restored until Client.Initialize.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = logging.Discard()
	}

	// -------- TOKEN SLOT --------
	slot, ownedRedis, err := b.openSlot(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		config:     cfg,
		logger:     logger,
		slot:       slot,
		ownedRedis: ownedRedis,
		routes:     route.Default(),
		policy:     password.DefaultPolicy(),
		onRejected: b.onRejected,
		metrics:    NewMetrics(cfg.Metrics),
		audit:      newAuditDispatcher(cfg.Audit, b.auditSink),
	}
	if b.policy != nil {
		c.policy = *b.policy
	}

	// -------- SESSION STORE --------
	opts := []session.Option{
		session.WithLogger(logger.With("component", "session")),
		session.OnDiscard(c.onRestoreDiscarded),
	}
	if cfg.Session.DiscardExpired {
		opts = append(opts, session.WithDiscardExpired(cfg.Session.ExpiryLeeway))
	}
	if b.clock != nil {
		opts = append(opts, session.WithClock(b.clock))
	}
	c.store = session.NewStore(slot, opts...)

	// -------- TRANSPORT --------
	c.transport = transport.New(b.base,
		transport.WithObserver(c.observeRoundTrip),
		transport.OnReject(c.onSessionRejected),
	)
	if cfg.API.UserAgent != "" {
		c.transport.Headers().Set("User-Agent", cfg.API.UserAgent)
	}
	c.unbind = transport.Bind(c.store, c.transport)

	c.api = api.New(cfg.API.BaseURL, &http.Client{
		Transport: c.transport,
		Timeout:   cfg.API.Timeout,
	})
	c.gate = gate.New(c.store, c.onDecision)

	b.built = true

	return c, nil
}

func (b *Builder) openSlot(cfg Config) (session.Slot, *redis.Client, error) {
	if b.slot != nil {
		return b.slot, nil, nil
	}

	switch cfg.Session.Backend {
	case BackendMemory:
		return session.NewMemorySlot(""), nil, nil
	case BackendRedis:
		client := b.redis
		var owned *redis.Client
		if client == nil {
			owned = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			client = owned
		}
		return session.NewRedisSlot(client, cfg.Redis.Prefix, cfg.Session.Profile, cfg.Session.RedisTTL), owned, nil
	default:
		path := cfg.Session.File
		if path == "" {
			p, err := session.DefaultFilePath(cfg.Session.Profile)
			if err != nil {
				return nil, nil, fmt.Errorf("token file: %w", err)
			}
			path = p
		}
		return session.NewFileSlot(path), nil, nil
	}
}
