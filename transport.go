package brandkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/nexar-ar/brandkit/internal/events"
)

// rotationHeader carries a server-initiated replacement access token on an
// otherwise ordinary successful response.
const rotationHeader = "x-access-token"

const refreshPath = "/brand/refresh-token"

// gateway is the authenticated request dispatcher. It attaches the current
// access token to every outgoing request, performs at most one transparent
// refresh-and-retry per request on 401, and tears the session down when the
// refresh call itself fails.
//
// Refresh mutual exclusion rides on a singleflight group: N requests that hit
// 401 while no refresh is in flight produce exactly one refresh call, and all
// N retry with the shared new token. The group key is constant because there
// is exactly one token per client.
type gateway struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	store      *SessionStore
	dispatcher *events.Dispatcher
	metrics    *Metrics
	logoutFn   func()

	refreshGroup singleflight.Group
}

type refreshResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
	Token string `json:"token"`
}

// do dispatches one API call. body may be nil; contentType is ignored when it
// is. On the first 401 the request is re-sent once with a freshly refreshed
// token; a second 401 propagates to the caller as *APIError.
func (g *gateway) do(ctx context.Context, method, path, contentType string, body []byte, out any) error {
	requestID := uuid.NewString()

	resp, err := g.send(ctx, method, path, contentType, body, g.store.Token(), requestID)
	if err != nil {
		g.metrics.Inc(MetricRequestFailure)
		return fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return g.finish(ctx, resp, requestID, out)
	}

	drain(resp)
	g.metrics.Inc(MetricUnauthorized)

	newToken, refreshErr := g.refresh(ctx)
	if refreshErr != nil {
		g.metrics.Inc(MetricRequestFailure)
		return fmt.Errorf("%w: %v", ErrSessionExpired, refreshErr)
	}

	g.metrics.Inc(MetricRequestRetried)
	g.emit(ctx, events.Event{
		Kind:      events.KindRequestRetried,
		RequestID: requestID,
		Path:      path,
	})

	resp, err = g.send(ctx, method, path, contentType, body, newToken, requestID)
	if err != nil {
		g.metrics.Inc(MetricRequestFailure)
		return fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}
	return g.finish(ctx, resp, requestID, out)
}

// send performs a single HTTP round trip. The token is passed explicitly so a
// post-refresh retry uses the new one even if another goroutine mutates the
// store in between.
func (g *gateway) send(ctx context.Context, method, path, contentType string, body []byte, accessToken, requestID string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	g.metrics.Inc(MetricRequest)
	g.metrics.Observe(MetricRequestLatency, time.Since(start))
	return resp, err
}

// refresh obtains a new access token, coalescing concurrent callers into a
// single refresh-token call. On failure the session is torn down exactly once
// (inside the flight) and every waiter receives the same error.
func (g *gateway) refresh(ctx context.Context) (string, error) {
	v, err, shared := g.refreshGroup.Do("refresh", func() (any, error) {
		g.emit(ctx, events.Event{Kind: events.KindRefreshStarted})

		// The flight serves every queued waiter; one caller's cancellation
		// must not fail the rest.
		tok, refreshErr := g.callRefresh(context.WithoutCancel(ctx))
		if refreshErr != nil {
			g.metrics.Inc(MetricRefreshFailure)
			g.emit(ctx, events.Event{Kind: events.KindRefreshFailure, Error: refreshErr.Error()})
			g.teardown(ctx)
			return nil, refreshErr
		}

		if setErr := g.store.SetToken(ctx, tok); setErr != nil {
			return nil, setErr
		}

		g.metrics.Inc(MetricRefreshSuccess)
		g.emit(ctx, events.Event{Kind: events.KindRefreshSuccess})
		return tok, nil
	})
	if shared {
		g.metrics.Inc(MetricRefreshCoalesced)
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// callRefresh performs the refresh-token call itself. It carries no bearer
// token and no body: the refresh credential is an HTTP-only cookie the
// http.Client's jar attaches on its own.
func (g *gateway) callRefresh(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+refreshPath, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s", ErrRefreshFailed, apiMessage(resp.StatusCode, data))
	}

	if tok := resp.Header.Get(rotationHeader); tok != "" {
		return tok, nil
	}

	var body refreshResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return "", fmt.Errorf("%w: malformed refresh response", ErrRefreshFailed)
	}
	if body.Data.Token != "" {
		return body.Data.Token, nil
	}
	if body.Token != "" {
		return body.Token, nil
	}
	return "", fmt.Errorf("%w: refresh response carried no token", ErrRefreshFailed)
}

// teardown is the only path that forcibly ends a session from inside the
// gateway: clear all three session records, then hand control to the logout
// handler (the navigation-to-login analog).
func (g *gateway) teardown(ctx context.Context) {
	_ = g.store.Clear(context.WithoutCancel(ctx))
	g.metrics.Inc(MetricForcedLogout)
	g.emit(ctx, events.Event{Kind: events.KindForcedLogout})
	if g.logoutFn != nil {
		g.logoutFn()
	}
}

// finish consumes a response: applies opportunistic token rotation, decodes
// the data envelope on success, and maps non-2xx bodies to *APIError.
func (g *gateway) finish(ctx context.Context, resp *http.Response, requestID string, out any) error {
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		g.metrics.Inc(MetricRequestFailure)
		return fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if tok := resp.Header.Get(rotationHeader); tok != "" && tok != g.store.Token() {
			if err := g.store.SetToken(ctx, tok); err != nil {
				return err
			}
			g.metrics.Inc(MetricTokenRotated)
			g.emit(ctx, events.Event{Kind: events.KindTokenRotated, RequestID: requestID})
		}

		if out == nil || len(data) == 0 {
			return nil
		}
		return decodeEnvelope(data, out)
	}

	g.metrics.Inc(MetricRequestFailure)
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    apiMessage(resp.StatusCode, data),
		RequestID:  requestID,
	}
}

func (g *gateway) emit(ctx context.Context, event events.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	g.dispatcher.Emit(ctx, event)
}

// decodeEnvelope unwraps the conventional {"data": ...} success payload,
// falling back to the top-level object for endpoints that skip the envelope.
func decodeEnvelope(data []byte, out any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		return json.Unmarshal(envelope.Data, out)
	}
	return json.Unmarshal(data, out)
}

// apiMessage extracts the conventional {"error": "..."} body, degrading to a
// trimmed raw body and finally the status text.
func apiMessage(status int, data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	if msg := strings.TrimSpace(string(data)); msg != "" && len(msg) <= 512 {
		return msg
	}
	return http.StatusText(status)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
}
