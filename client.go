package brandkit

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/nexar-ar/brandkit/internal/events"
)

// Client is the brand API client. Construct it through [Builder.Build]; the
// zero value is not usable. All methods are safe for concurrent use.
//
// A request that is still in flight when its context is cancelled is
// abandoned client-side but still completes server-side; callers that need
// the result must not cancel.
type Client struct {
	id         string
	config     Config
	store      *SessionStore
	gw         *gateway
	dispatcher *events.Dispatcher
	metrics    *Metrics
	closed     atomic.Bool
}

// ID is this client instance's identifier, included for log correlation.
func (c *Client) ID() string {
	return c.id
}

// Session exposes the session store. Reading state and restoring a persisted
// session (Initialize) go through here; mutation from application code should
// be limited to the documented setters.
func (c *Client) Session() *SessionStore {
	return c.store
}

// MetricsSnapshot returns a point-in-time copy of the client's metrics.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// EventsDropped reports events discarded under dispatcher backpressure.
func (c *Client) EventsDropped() uint64 {
	return c.dispatcher.Dropped()
}

// Logout clears token, identity, and account in one action. Navigation back
// to the login surface is the caller's concern here; the configured logout
// handler fires only for gateway-forced teardowns.
func (c *Client) Logout(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	adminID := ""
	if identity := c.store.Identity(); identity != nil {
		adminID = identity.ID
	}
	err := c.store.Clear(ctx)
	c.emit(ctx, events.Event{Kind: events.KindLogout, AdminID: adminID})
	return err
}

// Close flushes and stops the event dispatcher. The client must not be used
// afterwards.
func (c *Client) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.dispatcher.Close()
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	var (
		body        []byte
		contentType string
	)
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = data
		contentType = "application/json"
	}

	return c.gw.do(ctx, method, path, contentType, body, out)
}

func (c *Client) doGet(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRaw(ctx context.Context, method, path, contentType string, body []byte, out any) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	return c.gw.do(ctx, method, path, contentType, body, out)
}

func (c *Client) emit(ctx context.Context, event events.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	c.dispatcher.Emit(ctx, event)
}
