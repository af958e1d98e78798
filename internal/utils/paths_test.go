package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHomeDir(t *testing.T) {
	home := HomeDir()
	if home == "" {
		t.Error("HomeDir should not return empty string")
	}
	expected, _ := os.UserHomeDir()
	if home != expected {
		t.Errorf("HomeDir = %q, want %q", home, expected)
	}
}

func TestExpandHome(t *testing.T) {
	home := HomeDir()
	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/.npm/_cacache", filepath.Join(home, ".npm", "_cacache")},
		{"/var/tmp", "/var/tmp"},
		{"~user/x", "~user/x"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	if !DirExists(dir) {
		t.Error("DirExists should return true for existing dir")
	}
	if DirExists(filepath.Join(dir, "nope")) {
		t.Error("DirExists should return false for non-existent dir")
	}
	f := filepath.Join(dir, "file.txt")
	os.WriteFile(f, []byte("hi"), 0o644)
	if DirExists(f) {
		t.Error("DirExists should return false for a file")
	}
}
