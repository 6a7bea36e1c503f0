package goRate

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/MrEthical07/goRate/api"
)

// Config is the full client configuration. Every field can be set from the
// environment; see LoadConfig.
type Config struct {
	API     APIConfig     `envPrefix:"STORERATE_API_"`
	Session SessionConfig `envPrefix:"STORERATE_SESSION_"`
	Redis   RedisConfig   `envPrefix:"STORERATE_REDIS_"`
	Audit   AuditConfig   `envPrefix:"STORERATE_AUDIT_"`
	Metrics MetricsConfig `envPrefix:"STORERATE_METRICS_"`
	Log     LogConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig locates the REST API.
type APIConfig struct {
	BaseURL   string        `env:"URL"`
	Timeout   time.Duration `env:"TIMEOUT"`
	UserAgent string        `env:"USER_AGENT"`
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionBackend selects where the credential token is persisted.
type SessionBackend string

const (
	BackendFile   SessionBackend = "file"
	BackendMemory SessionBackend = "memory"
	BackendRedis  SessionBackend = "redis"
)

// UnmarshalText lets env parsing reject unknown backends.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := SessionBackend(strings.ToLower(strings.TrimSpace(string(text))))
	switch v {
	case BackendFile, BackendMemory, BackendRedis:
		*b = v
		return nil
	case "":
		*b = BackendFile
		return nil
	default:
		return fmt.Errorf("unknown session backend %q", string(text))
	}
}

// SessionConfig controls token persistence and restore.
type SessionConfig struct {
	Backend SessionBackend `env:"BACKEND"`
	// File overrides the token file path of the file backend.
	File string `env:"FILE"`
	// Profile separates tokens of several accounts on one machine.
	Profile string `env:"PROFILE"`
	// DiscardExpired drops a persisted token whose exp claim has passed
	// instead of restoring it and waiting for the server to reject it.
	DiscardExpired bool          `env:"DISCARD_EXPIRED"`
	ExpiryLeeway   time.Duration `env:"EXPIRY_LEEWAY"`
	// RedisTTL bounds the lifetime of the Redis key; zero keeps it until logout.
	RedisTTL time.Duration `env:"REDIS_TTL"`
}

/*
====================================
REDIS CONFIG
====================================
*/

// RedisConfig is used by the redis session backend when no client is given
// to the builder.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"`
	Prefix   string `env:"PREFIX"`
}

/*
====================================
AUDIT CONFIG
====================================
*/

type AuditConfig struct {
	Enabled    bool `env:"ENABLED"`
	BufferSize int  `env:"BUFFER_SIZE"`
	DropIfFull bool `env:"DROP_IF_FULL"`
}

/*
====================================
METRICS CONFIG
====================================
*/

type MetricsConfig struct {
	Enabled                 bool `env:"ENABLED"`
	EnableLatencyHistograms bool `env:"LATENCY_HISTOGRAMS"`
}

/*
====================================
LOG CONFIG
====================================
*/

// LogConfig is read by the binaries; the SDK itself takes a *slog.Logger.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"`
	Format string `env:"LOG_FORMAT"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:   api.DefaultBaseURL,
			Timeout:   15 * time.Second,
			UserAgent: "storerate-client",
		},
		Session: SessionConfig{
			Backend:      BackendFile,
			Profile:      "default",
			ExpiryLeeway: 30 * time.Second,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "storerate",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads a .env file from the working directory when present,
// then overlays the environment onto the defaults.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}
	return ConfigFromEnv()
}

// ConfigFromEnv overlays the process environment onto the defaults without
// reading any file.
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first setting that would keep Build from producing a
// working client.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("API BaseURL %q is not an absolute URL", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API BaseURL scheme must be http or https, got %q", u.Scheme)
	}
	if c.API.Timeout <= 0 {
		return errors.New("API Timeout must be > 0")
	}

	switch c.Session.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("Redis Addr is required for the redis session backend")
		}
		if c.Redis.DB < 0 {
			return errors.New("Redis DB must be >= 0")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if strings.ContainsAny(c.Session.Profile, `/\:`) {
		return errors.New("Session Profile must not contain path or key separators")
	}
	if c.Session.ExpiryLeeway < 0 {
		return errors.New("Session ExpiryLeeway must be >= 0")
	}
	if c.Session.RedisTTL < 0 {
		return errors.New("Session RedisTTL must be >= 0")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}
	return nil
}

/*
====================================
LINT
====================================
*/

// LintSeverity ranks lint warnings.
type LintSeverity int

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintHigh:
		return "high"
	case LintWarn:
		return "warn"
	default:
		return "info"
	}
}

// LintWarning is a setting that is valid but probably not intended.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintResult is the list returned by Config.Lint.
type LintResult []LintWarning

// Codes lists the warning codes in order.
func (r LintResult) Codes() []string {
	out := make([]string, len(r))
	for i, w := range r {
		out[i] = w.Code
	}
	return out
}

// BySeverity keeps warnings at or above floor.
func (r LintResult) BySeverity(floor LintSeverity) LintResult {
	var out LintResult
	for _, w := range r {
		if w.Severity >= floor {
			out = append(out, w)
		}
	}
	return out
}

// AsError joins warnings at or above floor into one error, or returns nil.
func (r LintResult) AsError(floor LintSeverity) error {
	filtered := r.BySeverity(floor)
	if len(filtered) == 0 {
		return nil
	}
	msgs := make([]string, len(filtered))
	for i, w := range filtered {
		msgs[i] = w.Code + ": " + w.Message
	}
	return errors.New("config lint: " + strings.Join(msgs, "; "))
}

// Lint flags settings that are valid but risky.
func (c *Config) Lint() LintResult {
	var out LintResult

	if u, err := url.Parse(c.API.BaseURL); err == nil && u.Scheme == "http" && !isLoopback(u.Hostname()) {
		out = append(out, LintWarning{
			Code:     "api_plaintext_remote",
			Severity: LintHigh,
			Message:  "bearer tokens would cross the network unencrypted",
		})
	}
	if c.API.Timeout > 2*time.Minute {
		out = append(out, LintWarning{
			Code:     "api_timeout_long",
			Severity: LintInfo,
			Message:  "a hung API call blocks the caller for more than two minutes",
		})
	}
	if c.Session.Backend == BackendMemory {
		out = append(out, LintWarning{
			Code:     "session_not_persisted",
			Severity: LintInfo,
			Message:  "sign-in does not survive a restart with the memory backend",
		})
	}
	if c.Session.Backend == BackendRedis && c.Redis.Password == "" && !isLoopback(redisHost(c.Redis.Addr)) {
		out = append(out, LintWarning{
			Code:     "redis_no_auth",
			Severity: LintWarn,
			Message:  "tokens are stored on a remote Redis without a password",
		})
	}
	if c.Session.Backend == BackendRedis && c.Session.RedisTTL == 0 {
		out = append(out, LintWarning{
			Code:     "redis_token_no_ttl",
			Severity: LintInfo,
			Message:  "the Redis token key never expires on its own",
		})
	}
	if !c.Session.DiscardExpired {
		out = append(out, LintWarning{
			Code:     "expired_tokens_restored",
			Severity: LintInfo,
			Message:  "expired tokens are restored and only dropped when the server rejects them",
		})
	}
	if !c.Audit.Enabled {
		out = append(out, LintWarning{
			Code:     "audit_disabled",
			Severity: LintInfo,
			Message:  "session events are not audited",
		})
	}
	return out
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func redisHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
