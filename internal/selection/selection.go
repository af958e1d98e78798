// Package selection persists which categories the user wants cleaned.
package selection

import (
	"fmt"
	"maps"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// Store is a flat name -> selected mapping. Get reports ok=false when no
// value has been stored for name, so callers can fall back to a default.
type Store interface {
	Get(name string) (selected bool, ok bool)
	Set(name string, selected bool) error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultPath returns the default location for the given backend under the
// XDG state directory.
func DefaultPath(backend string) string {
	name := "selection.json"
	if backend == BackendSQLite {
		name = "cleanslim.db"
	}
	return filepath.Join(xdg.StateHome, "cleanslim", name)
}

// Open returns a Store for the named backend. An empty path selects
// DefaultPath(backend).
func Open(backend, path string) (Store, error) {
	if backend == "" {
		backend = BackendFile
	}
	if path == "" && backend != BackendMemory {
		path = DefaultPath(backend)
	}

	switch backend {
	case BackendFile:
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown selection backend %q (use file, sqlite, or memory)", backend)
	}
}

// Close releases resources held by s, if any.
func Close(s Store) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Saved returns every value stored in s, including names no longer
// registered as categories.
func Saved(s Store) (map[string]bool, error) {
	if l, ok := s.(interface {
		All() (map[string]bool, error)
	}); ok {
		return l.All()
	}
	return map[string]bool{}, nil
}

// Location describes where s keeps its values; empty for in-memory stores.
func Location(s Store) string {
	if p, ok := s.(interface{ Path() string }); ok {
		return p.Path()
	}
	return ""
}

// MemoryStore keeps selections for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]bool
}

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{values: make(map[string]bool)}
}

func (m *MemoryStore) Get(name string) (bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[name]
	return v, ok
}

func (m *MemoryStore) Set(name string, selected bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = selected
	return nil
}

func (m *MemoryStore) All() (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values), nil
}
