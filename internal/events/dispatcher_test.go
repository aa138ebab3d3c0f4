package events

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Emit(_ context.Context, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) all() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 16}, sink)

	ctx := context.Background()
	d.Emit(ctx, Event{Kind: KindLogin})
	d.Emit(ctx, Event{Kind: KindTokenRotated})
	d.Emit(ctx, Event{Kind: KindLogout})
	d.Close()

	got := sink.all()
	if len(got) != 3 {
		t.Fatalf("delivered %d events, want 3", len(got))
	}
	want := []Kind{KindLogin, KindTokenRotated, KindLogout}
	for i, kind := range want {
		if got[i].Kind != kind {
			t.Fatalf("event %d = %q, want %q", i, got[i].Kind, kind)
		}
	}
}

func TestDisabledDispatcherIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, &recordingSink{})
	if d != nil {
		t.Fatal("disabled config must produce a nil dispatcher")
	}

	// All methods are nil-receiver safe.
	d.Emit(context.Background(), Event{Kind: KindLogin})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reported drops")
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	blocking := sinkFunc(func(context.Context, Event) { <-block })

	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, blocking)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		d.Emit(ctx, Event{Kind: KindRequestRetried})
	}

	deadline := time.After(2 * time.Second)
	for d.Dropped() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected drops under backpressure")
		case <-time.After(5 * time.Millisecond):
		}
	}

	close(block)
	d.Close()
}

func TestDispatcherCloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, &recordingSink{})
	d.Close()
	d.Close()

	// Emitting after close is a silent no-op.
	d.Emit(context.Background(), Event{Kind: KindLogin})
}

func TestJSONWriterSinkLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Event{Kind: KindForcedLogout, AdminID: "a1"})
	sink.Emit(context.Background(), Event{Kind: KindLogout})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("wrote %d lines, want 2", len(lines))
	}

	var first Event
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if first.Kind != KindForcedLogout || first.AdminID != "a1" {
		t.Fatalf("unexpected first event: %+v", first)
	}
}

type sinkFunc func(context.Context, Event)

func (f sinkFunc) Emit(ctx context.Context, event Event) { f(ctx, event) }
