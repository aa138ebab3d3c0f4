package brandkit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/nexar-ar/brandkit/internal/events"
	"github.com/nexar-ar/brandkit/session"
	"github.com/nexar-ar/brandkit/token"
)

// SessionStore owns the current identity, brand record, and access token, and
// mirrors all three into a [session.Backend] so a restarted process resumes
// its session without re-login.
//
// The store is the single writer of session state. UI/application code reads
// through the getters and mutates only through SetToken, SetIdentity, and
// SetAccount; the gateway shares the same mutators so persisted records and
// in-memory state never diverge.
type SessionStore struct {
	backend    session.Backend
	cfg        SessionConfig
	dispatcher *events.Dispatcher
	metrics    *Metrics

	mu          sync.RWMutex
	tokenValue  string
	identity    *Admin
	account     *Brand
	initialized bool
}

func newSessionStore(backend session.Backend, cfg SessionConfig, d *events.Dispatcher, m *Metrics) *SessionStore {
	return &SessionStore{
		backend:    backend,
		cfg:        cfg,
		dispatcher: d,
		metrics:    m,
	}
}

// Initialize restores persisted session state. It never fails: unreadable
// storage and corrupt records degrade to the unauthenticated state (with a
// storage_corrupt event per bad record). After Initialize returns, callers
// may safely branch on [SessionStore.IsLoggedIn]. Calling it again is a no-op.
func (s *SessionStore) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return
	}
	s.initialized = true

	if raw, err := s.backend.Get(ctx, session.RecordToken); err == nil {
		s.tokenValue = string(raw)
	}

	if raw, err := s.backend.Get(ctx, session.RecordIdentity); err == nil {
		var admin Admin
		if jsonErr := json.Unmarshal(raw, &admin); jsonErr != nil {
			s.noteCorrupt(ctx, session.RecordIdentity, jsonErr)
		} else {
			s.identity = &admin
		}
	}

	if raw, err := s.backend.Get(ctx, session.RecordAccount); err == nil {
		var brand Brand
		if jsonErr := json.Unmarshal(raw, &brand); jsonErr != nil {
			s.noteCorrupt(ctx, session.RecordAccount, jsonErr)
		} else {
			s.account = &brand
		}
	}

	if s.identity != nil || s.tokenValue != "" {
		s.metrics.Inc(MetricSessionRestored)
		s.emit(ctx, events.Event{Kind: events.KindSessionRestore, AdminID: s.adminIDLocked()})
	}
}

// SetToken replaces the in-memory token and its persisted record. An empty
// token clears both. The persisted TTL is the configured cap, shortened to the
// token's own exp claim when one is readable.
func (s *SessionStore) SetToken(ctx context.Context, raw string) error {
	s.mu.Lock()
	s.tokenValue = raw
	s.mu.Unlock()

	if raw == "" {
		return s.backend.Delete(ctx, session.RecordToken)
	}

	ttl := token.CapTTL(raw, s.cfg.TokenTTL, time.Now())
	return s.backend.Set(ctx, session.RecordToken, []byte(raw), ttl)
}

// SetIdentity replaces the stored identity. nil clears it.
func (s *SessionStore) SetIdentity(ctx context.Context, admin *Admin) error {
	s.mu.Lock()
	if admin == nil {
		s.identity = nil
	} else {
		cp := *admin
		s.identity = &cp
	}
	s.mu.Unlock()

	if admin == nil {
		return s.backend.Delete(ctx, session.RecordIdentity)
	}

	data, err := json.Marshal(admin)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, session.RecordIdentity, data, s.cfg.IdentityTTL)
}

// SetAccount replaces the stored brand record. nil clears it.
func (s *SessionStore) SetAccount(ctx context.Context, brand *Brand) error {
	s.mu.Lock()
	if brand == nil {
		s.account = nil
	} else {
		cp := *brand
		s.account = &cp
	}
	s.mu.Unlock()

	if brand == nil {
		return s.backend.Delete(ctx, session.RecordAccount)
	}

	data, err := json.Marshal(brand)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, session.RecordAccount, data, s.cfg.IdentityTTL)
}

// Clear removes token, identity, and account in one call. It is the logout
// primitive; the first storage error is reported after all three clears run.
func (s *SessionStore) Clear(ctx context.Context) error {
	tokenErr := s.SetToken(ctx, "")
	identityErr := s.SetIdentity(ctx, nil)
	accountErr := s.SetAccount(ctx, nil)
	return errors.Join(tokenErr, identityErr, accountErr)
}

// Token returns the current access token, or "" when logged out.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokenValue
}

// Identity returns a copy of the stored identity, or nil.
func (s *SessionStore) Identity() *Admin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	cp := *s.identity
	return &cp
}

// Account returns a copy of the stored brand record, or nil.
func (s *SessionStore) Account() *Brand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return nil
	}
	cp := *s.account
	return &cp
}

// IsLoggedIn is derived, never stored: an identity with a non-empty ID.
func (s *SessionStore) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.identity.ID != ""
}

// IsInitialized reports whether Initialize has completed.
func (s *SessionStore) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *SessionStore) adminIDLocked() string {
	if s.identity == nil {
		return ""
	}
	return s.identity.ID
}

func (s *SessionStore) noteCorrupt(ctx context.Context, record string, err error) {
	s.metrics.Inc(MetricStorageCorrupt)
	s.emit(ctx, events.Event{
		Kind:  events.KindStorageCorrupt,
		Path:  record,
		Error: err.Error(),
	})
}

func (s *SessionStore) emit(ctx context.Context, event events.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.dispatcher.Emit(ctx, event)
}
