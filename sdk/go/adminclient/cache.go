package adminclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Snapshot is the locally cached auth hint. It is never authoritative: the
// session cookie checked by the server decides.
type Snapshot struct {
	Authenticated bool   `json:"authenticated"`
	Token         string `json:"token,omitempty"`
}

// Cache persists the last known Snapshot between mounts.
type Cache interface {
	Load() (Snapshot, error)
	Store(Snapshot) error
	Clear() error
}

// MemoryCache keeps the snapshot in process memory.
type MemoryCache struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (m *MemoryCache) Load() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *MemoryCache) Store(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = s
	return nil
}

func (m *MemoryCache) Clear() error {
	return m.Store(Snapshot{})
}

// FileCache keeps the snapshot in a JSON file readable only by the owner.
//
// Only the hint is persisted. The session cookie stays in the client's
// cookie jar, which is in memory unless a persistent jar is supplied with
// WithHTTPClient. A client started in a new process with a file hint but an
// empty jar therefore fails verification on Mount and clears the file.
type FileCache struct {
	mu   sync.Mutex
	path string
}

// NewFileCache returns a cache backed by path. The file is created on the
// first Store.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Load returns the stored snapshot; a missing file is an empty snapshot.
func (f *FileCache) Load() (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading auth cache: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decoding auth cache: %w", err)
	}
	return s, nil
}

// Store writes the snapshot atomically with mode 0600.
func (f *FileCache) Store(s Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding auth cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating auth cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".adminclient-*")
	if err != nil {
		return fmt.Errorf("creating auth cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("securing auth cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing auth cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing auth cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing auth cache: %w", err)
	}
	return nil
}

// Clear removes the file. Clearing a missing file is not an error.
func (f *FileCache) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clearing auth cache: %w", err)
	}
	return nil
}
