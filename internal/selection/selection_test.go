package selection

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	if _, ok := s.Get("system.cache"); ok {
		t.Error("empty store should report ok=false")
	}
	if err := s.Set("system.cache", false); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("system.logs", true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, ok := s.Get("system.cache"); !ok || v {
		t.Errorf("Get(system.cache) = %v, %v, want false, true", v, ok)
	}
	if err := s.Set("system.cache", true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, ok := s.Get("system.cache"); !ok || !v {
		t.Errorf("Get(system.cache) after overwrite = %v, %v, want true, true", v, ok)
	}
	if v, ok := s.Get("system.logs"); !ok || !v {
		t.Errorf("Get(system.logs) = %v, %v, want true, true", v, ok)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "selection.json")
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	exerciseStore(t, s)

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if v, ok := reopened.Get("system.cache"); !ok || !v {
		t.Errorf("reopened Get(system.cache) = %v, %v, want true, true", v, ok)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.json")
	os.WriteFile(path, []byte("{not json"), 0o644)

	if _, err := OpenFile(path); err == nil {
		t.Error("expected error for corrupt selection file")
	}
}

func TestFileStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.json")
	os.WriteFile(path, nil, 0o644)

	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile(empty) failed: %v", err)
	}
	if _, ok := s.Get("anything"); ok {
		t.Error("empty file should hold no selections")
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "cleanslim.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	exerciseStore(t, s)

	all, err := s.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 2 || !all["system.cache"] || !all["system.logs"] {
		t.Errorf("All = %v", all)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	if v, ok := reopened.Get("system.logs"); !ok || !v {
		t.Errorf("reopened Get(system.logs) = %v, %v, want true, true", v, ok)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend string
		path    string
		wantErr bool
	}{
		{"", filepath.Join(dir, "a.json"), false},
		{BackendFile, filepath.Join(dir, "b.json"), false},
		{BackendSQLite, filepath.Join(dir, "c.db"), false},
		{BackendMemory, "", false},
		{"redis", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := Open(tt.backend, tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer Close(s)
			if err := s.Set("x", true); err != nil {
				t.Errorf("Set failed: %v", err)
			}

			saved, err := Saved(s)
			if err != nil {
				t.Fatalf("Saved failed: %v", err)
			}
			if len(saved) != 1 || !saved["x"] {
				t.Errorf("Saved = %v, want map[x:true]", saved)
			}
			if got := Location(s); got != tt.path {
				t.Errorf("Location = %q, want %q", got, tt.path)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	if p := DefaultPath(BackendFile); !strings.HasSuffix(p, filepath.Join("cleanslim", "selection.json")) {
		t.Errorf("DefaultPath(file) = %q", p)
	}
	if p := DefaultPath(BackendSQLite); !strings.HasSuffix(p, filepath.Join("cleanslim", "cleanslim.db")) {
		t.Errorf("DefaultPath(sqlite) = %q", p)
	}
}
