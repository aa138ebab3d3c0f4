package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileBackend persists session records to a single jar file using the binary
// codec in codec.go. It is meant for one logged-in operator per path, the way
// a browser profile holds one cookie jar.
//
// Every operation rewrites the whole jar under an exclusive lock. The jar is
// small (three records) so read-modify-write is cheaper than being clever.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

// NewFileBackend creates a file-backed [Backend] at path. The file is created
// lazily on first Set with 0600 permissions.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Get returns the named record or [ErrNotFound]. A missing file and a corrupt
// jar both decode to absence: local storage is trusted state, not a network
// resource, so there is nothing to retry.
func (f *FileBackend) Get(_ context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.name == name {
			return rec.value, nil
		}
	}
	return nil, ErrNotFound
}

// Set stores value under name for ttl, replacing any existing record.
// A non-positive ttl deletes the record.
func (f *FileBackend) Set(ctx context.Context, name string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return f.Delete(ctx, name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(ttl).Unix()
	replaced := false
	for i := range records {
		if records[i].name == name {
			records[i].value = value
			records[i].expiresAt = expiresAt
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, jarRecord{name: name, value: value, expiresAt: expiresAt})
	}

	return f.flush(records)
}

// Delete removes the named record. Deleting an absent record is not an error.
func (f *FileBackend) Delete(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, rec := range records {
		if rec.name != name {
			kept = append(kept, rec)
		}
	}

	if len(kept) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		return nil
	}

	return f.flush(kept)
}

func (f *FileBackend) load() ([]jarRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	records, decErr := decodeJar(data, time.Now())
	if decErr != nil {
		// Corrupt jar degrades to an empty one.
		return nil, nil
	}
	return records, nil
}

func (f *FileBackend) flush(records []jarRecord) error {
	data, err := encodeJar(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".brandkit-jar-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}
