package brandkit

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config defines the client's tunable surface. Instances are configured during
// initialization and treated as immutable after [Builder.Build].
type Config struct {
	API     APIConfig
	Session SessionConfig
	Events  EventsConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig selects the API origin and transport behavior. BaseURL is the only
// externally required value.
type APIConfig struct {
	BaseURL   string        `env:"BRAND_API_BASE_URL"`
	Timeout   time.Duration `env:"BRAND_API_TIMEOUT" env-default:"30s"`
	UserAgent string        `env:"BRAND_API_USER_AGENT" env-default:"brandkit-go"`
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls persisted session lifetimes and backend namespacing.
// TokenTTL is a client-side cap: the persisted token expires after TokenTTL
// regardless of the server-side validity (and earlier when the token's own
// exp claim is shorter).
type SessionConfig struct {
	TokenTTL    time.Duration `env:"BRAND_SESSION_TOKEN_TTL" env-default:"1h"`
	IdentityTTL time.Duration `env:"BRAND_SESSION_IDENTITY_TTL" env-default:"168h"`
	RedisPrefix string        `env:"BRAND_SESSION_REDIS_PREFIX" env-default:"bk"`
	FilePath    string        `env:"BRAND_SESSION_FILE"`
}

/*
====================================
EVENTS CONFIG
====================================
*/

// EventsConfig controls the async observability event dispatcher.
type EventsConfig struct {
	Enabled    bool `env:"BRAND_EVENTS_ENABLED" env-default:"false"`
	BufferSize int  `env:"BRAND_EVENTS_BUFFER" env-default:"64"`
	DropIfFull bool `env:"BRAND_EVENTS_DROP_IF_FULL" env-default:"true"`
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process counters and the optional request
// latency histogram.
type MetricsConfig struct {
	Enabled                 bool `env:"BRAND_METRICS_ENABLED" env-default:"false"`
	EnableLatencyHistograms bool `env:"BRAND_METRICS_LATENCY" env-default:"false"`
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:   30 * time.Second,
			UserAgent: "brandkit-go",
		},
		Session: SessionConfig{
			TokenTTL:    time.Hour,
			IdentityTTL: 7 * 24 * time.Hour,
			RedisPrefix: "bk",
		},
		Events: EventsConfig{
			BufferSize: 64,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; a shallow copy is a deep copy.
	return cfg
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	base := strings.TrimSpace(c.API.BaseURL)
	if base == "" {
		return errors.New("API.BaseURL is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("API.BaseURL must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("API.BaseURL scheme must be http or https")
	}
	if c.API.Timeout < 0 {
		return errors.New("API.Timeout must not be negative")
	}
	if c.Session.TokenTTL <= 0 {
		return errors.New("Session.TokenTTL must be positive")
	}
	if c.Session.IdentityTTL < c.Session.TokenTTL {
		return errors.New("Session.IdentityTTL must not be shorter than Session.TokenTTL")
	}
	if c.Events.Enabled && c.Events.BufferSize <= 0 {
		return errors.New("Events.BufferSize must be positive when events are enabled")
	}
	return nil
}

// ConfigFromEnv reads configuration from environment variables (BRAND_API_*,
// BRAND_SESSION_*, BRAND_EVENTS_*, BRAND_METRICS_*) on top of the built-in
// defaults. The result is not validated; Build does that.
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
