package selection

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps selections in a JSON object on disk. Every Set rewrites
// the file.
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]bool
}

// OpenFile loads the JSON selection file at path. A missing file is an
// empty store; a corrupt file is an error.
func OpenFile(path string) (*FileStore, error) {
	fs := &FileStore{path: path, values: make(map[string]bool)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, fmt.Errorf("failed to read selection file: %w", err)
	}
	if len(data) == 0 {
		return fs, nil
	}
	if err := json.Unmarshal(data, &fs.values); err != nil {
		return nil, fmt.Errorf("failed to parse selection file: %w", err)
	}
	return fs, nil
}

// Path returns the backing file location.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(name string) (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[name]
	return v, ok
}

// All returns a copy of every stored selection.
func (f *FileStore) All() (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.values), nil
}

func (f *FileStore) Set(name string, selected bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[name] = selected

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create selection directory: %w", err)
	}
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write selection file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace selection file: %w", err)
	}
	return nil
}
