package brandkit

import (
	"errors"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nexar-ar/brandkit/internal/events"
	"github.com/nexar-ar/brandkit/session"
)

// Builder assembles a [Client]. Configure it during initialization and call
// Build once; a Builder is not reusable.
type Builder struct {
	config     Config
	httpClient *http.Client
	backend    session.Backend
	redis      redis.UniversalClient
	eventSink  EventSink
	logoutFn   func()

	built bool
}

// New returns a Builder preloaded with the package defaults.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets the API origin without replacing the rest of the config.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient supplies the underlying HTTP client. A cookie jar is
// installed on it when absent: the refresh credential lives in a cookie and
// a jarless client could never refresh.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithBackend supplies the session persistence backend directly.
func (b *Builder) WithBackend(backend session.Backend) *Builder {
	b.backend = backend
	return b
}

// WithRedis selects a redis-backed session backend, namespaced by
// Config.Session.RedisPrefix. Ignored when WithBackend was called.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithEventSink receives the client's lifecycle events. Setting a sink
// enables event dispatch even when Config.Events.Enabled is false.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.eventSink = sink
	b.config.Events.Enabled = true
	return b
}

// WithLogoutHandler is invoked after the gateway forcibly tears down the
// session (refresh failure). It is the SDK analog of navigating to the login
// surface; keep it fast and idempotent.
func (b *Builder) WithLogoutHandler(fn func()) *Builder {
	b.logoutFn = fn
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, wires the session store and gateway,
// and returns a ready [Client].
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend := b.backend
	if backend == nil {
		switch {
		case b.redis != nil:
			backend = session.NewRedisBackend(b.redis, cfg.Session.RedisPrefix)
		case cfg.Session.FilePath != "":
			backend = session.NewFileBackend(cfg.Session.FilePath)
		default:
			backend = session.NewMemoryBackend()
		}
	}

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.API.Timeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		httpClient.Jar = jar
	}

	dispatcher := events.NewDispatcher(events.Config{
		Enabled:    cfg.Events.Enabled,
		BufferSize: cfg.Events.BufferSize,
		DropIfFull: cfg.Events.DropIfFull,
	}, b.eventSink)

	metrics := NewMetrics(cfg.Metrics)
	store := newSessionStore(backend, cfg.Session, dispatcher, metrics)

	client := &Client{
		id:         uuid.NewString(),
		config:     cfg,
		store:      store,
		dispatcher: dispatcher,
		metrics:    metrics,
		gw: &gateway{
			httpClient: httpClient,
			baseURL:    strings.TrimRight(cfg.API.BaseURL, "/"),
			userAgent:  cfg.API.UserAgent,
			store:      store,
			dispatcher: dispatcher,
			metrics:    metrics,
			logoutFn:   b.logoutFn,
		},
	}

	b.built = true
	return client, nil
}
