// Package events carries the client's observability event model and the async
// dispatcher that forwards events to a caller-provided sink. It is the
// structured-logging surface of the SDK: nothing here is required for
// correctness and a disabled dispatcher costs one nil check per emit.
package events

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Kind names a client lifecycle occurrence.
type Kind string

const (
	KindLogin          Kind = "login"
	KindLogout         Kind = "logout"
	KindSessionRestore Kind = "session_restore"
	KindStorageCorrupt Kind = "storage_corrupt"
	KindRefreshStarted Kind = "refresh_started"
	KindRefreshSuccess Kind = "refresh_success"
	KindRefreshFailure Kind = "refresh_failure"
	KindTokenRotated   Kind = "token_rotated"
	KindForcedLogout   Kind = "forced_logout"
	KindRequestRetried Kind = "request_retried"
)

// Event is one emitted occurrence. RequestID is set for events tied to a
// specific API call; AdminID for events tied to a logged-in identity.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`
	AdminID   string    `json:"admin_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Path      string    `json:"path,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Sink receives dispatched events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink drops events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink writes events into a buffered channel, for tests and callers
// that want to consume the stream themselves.
type ChannelSink struct {
	events chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan Event, buffer)}
}

func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink writes one JSON object per line, the conventional structured
// log shape.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

func (s *JSONWriterSink) Emit(_ context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
