package brandkit

import (
	"io"

	"github.com/nexar-ar/brandkit/internal/events"
)

// Event is a structured client lifecycle record (login, refresh, rotation,
// forced logout) emitted through the configured [EventSink].
type Event = events.Event

// EventKind names an [Event] occurrence.
type EventKind = events.Kind

const (
	EventLogin          = events.KindLogin
	EventLogout         = events.KindLogout
	EventSessionRestore = events.KindSessionRestore
	EventStorageCorrupt = events.KindStorageCorrupt
	EventRefreshStarted = events.KindRefreshStarted
	EventRefreshSuccess = events.KindRefreshSuccess
	EventRefreshFailure = events.KindRefreshFailure
	EventTokenRotated   = events.KindTokenRotated
	EventForcedLogout   = events.KindForcedLogout
	EventRequestRetried = events.KindRequestRetried
)

// EventSink receives [Event] values from the client's dispatcher.
type EventSink = events.Sink

// NoOpSink is an [EventSink] that silently discards all events.
type NoOpSink = events.NoOpSink

// ChannelSink is a buffered channel-based [EventSink].
type ChannelSink = events.ChannelSink

// JSONWriterSink writes JSON-encoded events, one per line, to an [io.Writer].
type JSONWriterSink = events.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return events.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return events.NewJSONWriterSink(w)
}
