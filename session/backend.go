package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Record names used by the brandkit session store. Kept here so every backend
// and the jar codec agree on the persisted layout.
const (
	RecordToken    = "token"
	RecordIdentity = "admin"
	RecordAccount  = "brand"
)

// ErrNotFound is returned by [Backend.Get] for absent or expired records.
var ErrNotFound = errors.New("session record not found")

// ErrBackendUnavailable wraps storage transport failures (redis down,
// unreadable jar file). Corrupt record payloads are NOT reported this way;
// they decode to absence.
var ErrBackendUnavailable = errors.New("session backend unavailable")

// Backend is the persistence contract for session records. Implementations
// must treat expired records as absent and must be safe for concurrent use.
type Backend interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, name string) error
}

type memoryRecord struct {
	value     []byte
	expiresAt time.Time
}

// MemoryBackend is an in-process [Backend]. Records vanish with the process.
type MemoryBackend struct {
	mu      sync.Mutex
	records map[string]memoryRecord
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string]memoryRecord)}
}

// Get returns the stored value or [ErrNotFound] when absent or expired.
func (m *MemoryBackend) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[name]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(rec.expiresAt) {
		delete(m.records, name)
		return nil, ErrNotFound
	}

	out := make([]byte, len(rec.value))
	copy(out, rec.value)
	return out, nil
}

// Set stores value under name for ttl. A non-positive ttl deletes the record.
func (m *MemoryBackend) Set(_ context.Context, name string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl <= 0 {
		delete(m.records, name)
		return nil
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.records[name] = memoryRecord{value: stored, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Delete removes the record. Deleting an absent record is not an error.
func (m *MemoryBackend) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, name)
	return nil
}
