package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lu-zhengda/cleanslim/internal/selection"
)

func TestPrintSavedSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.json")
	store, err := selection.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	store.Set("system.logs", false)
	store.Set("old.cache", true)

	var buf bytes.Buffer
	known := map[string]bool{"system.cache": true, "system.logs": true}
	if err := printSavedSelection(&buf, store, known); err != nil {
		t.Fatalf("printSavedSelection failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Saved in " + path, "[ ] system.logs", "[x] old.cache (unknown category)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "old.cache") > strings.Index(out, "system.logs") {
		t.Errorf("names should be sorted:\n%s", out)
	}
	if strings.Contains(out, "system.cache") {
		t.Errorf("unsaved category listed:\n%s", out)
	}
}

func TestPrintSavedSelection_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := printSavedSelection(&buf, selection.NewMemory(), nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "Saved in") {
		t.Errorf("memory store should have no location:\n%s", out)
	}
	if !strings.Contains(out, "No saved selection") {
		t.Errorf("output = %q", out)
	}
}
