package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lu-zhengda/cleanslim/internal/category"
	"github.com/lu-zhengda/cleanslim/internal/cleaner"
	"github.com/lu-zhengda/cleanslim/internal/engine"
	"github.com/lu-zhengda/cleanslim/internal/scancache"
)

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		maxLen int
		want   string
	}{
		{"short path unchanged", "/tmp/foo", 20, "/tmp/foo"},
		{"exact length unchanged", "abcdefghij", 10, "abcdefghij"},
		{"long path truncated", "/Users/home/Library/Caches/com.example", 20, "...aches/com.example"},
		{"empty path", "", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncatePath(tt.path, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncatePath(%q, %d) = %q, want %q", tt.path, tt.maxLen, got, tt.want)
			}
			if len(got) > tt.maxLen {
				t.Errorf("truncatePath result %q longer than %d", got, tt.maxLen)
			}
		})
	}
}

func TestFormatDelta(t *testing.T) {
	if got := formatDelta(1500); got != "+1.5 kB" {
		t.Errorf("formatDelta(1500) = %q", got)
	}
	if got := formatDelta(-2000000); got != "-2.0 MB" {
		t.Errorf("formatDelta(-2000000) = %q", got)
	}
}

func TestPrintScanResults(t *testing.T) {
	cats := []category.Category{
		{Name: "system.cache", DisplayName: "System Caches", Path: "/c", Size: 3000, Files: 3, Selected: true},
		{Name: "system.logs", DisplayName: "System Logs", Path: "/l", Size: 1000, Files: 1},
	}
	diff := &scancache.DiffResult{
		PreviousTimestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalDelta:        500,
		Categories: map[string]scancache.CategoryDiff{
			"system.cache": {Delta: 500},
		},
	}

	var buf bytes.Buffer
	printScanResults(&buf, cats, diff)
	out := buf.String()

	for _, want := range []string{"[x] System Caches", "[ ] System Logs", "Total: 4.0 kB (selected: 3.0 kB)", "+500 B"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintScanResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	printScanResults(&buf, nil, nil)
	if !strings.Contains(buf.String(), "No categories") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrintCleanResults(t *testing.T) {
	results := []engine.CategoryResult{
		{Name: "system.cache", Credited: 2000, Removed: 4},
		{Name: "system.logs", Credited: 1000, Removed: 2, Failed: 1},
		{Name: "app.state", Err: errors.Join(cleaner.ErrStructural, errors.New("gone"))},
	}

	var buf bytes.Buffer
	printCleanResults(&buf, results)
	out := buf.String()

	for _, want := range []string{"(4 removed)", "1 could not be deleted", "app.state", "failed:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfirmAction(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"n\n", false},
		{"\n", false},
		{"yes\n", false},
	}
	for _, tt := range tests {
		got := confirmAction(strings.NewReader(tt.input), "Proceed?")
		if got != tt.want {
			t.Errorf("confirmAction(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
