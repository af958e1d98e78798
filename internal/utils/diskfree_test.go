package utils

import (
	"path/filepath"
	"testing"
)

func TestFreeSpace(t *testing.T) {
	free, err := FreeSpace(t.TempDir())
	if err != nil {
		t.Fatalf("FreeSpace failed: %v", err)
	}
	if free <= 0 {
		t.Errorf("FreeSpace = %d, want > 0", free)
	}
}

func TestFreeSpace_Missing(t *testing.T) {
	if _, err := FreeSpace(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing path")
	}
}
