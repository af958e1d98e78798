package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lu-zhengda/cleanslim/internal/cleaner"
	"github.com/lu-zhengda/cleanslim/internal/engine"
)

func TestRecordAndLoad(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "data", "history.json"))

	now := time.Now()
	err := h.Record(
		Entry{Timestamp: now, Category: "system.cache", BytesFreed: 1000, Trigger: "manual"},
		Entry{Timestamp: now, Category: "system.logs", BytesFreed: 200, Failures: 2, Trigger: "manual"},
	)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := h.Record(Entry{Timestamp: now, Category: "system.cache", BytesFreed: 50, Trigger: "schedule"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, err := h.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Load returned %d entries, want 3", len(entries))
	}
	if entries[1].Failures != 2 || entries[2].Trigger != "schedule" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestRecord_NothingToWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := New(path).Record(); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("empty Record should not create the file")
	}
}

func TestRecord_CorruptFileStartsOver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	os.WriteFile(path, []byte("not json"), 0o644)

	h := New(path)
	if err := h.Record(Entry{Category: "temp.cache", BytesFreed: 1}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	entries, err := h.Load()
	if err != nil || len(entries) != 1 {
		t.Errorf("Load = %v, %v, want 1 entry", entries, err)
	}
}

func TestStats(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.json"))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		h.Record(Entry{
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
			Category:   []string{"system.cache", "system.logs"}[i%2],
			BytesFreed: int64(100 * (i + 1)),
			Failures:   i % 3,
		})
	}

	s := h.Stats()
	if s.TotalCleanups != 7 {
		t.Errorf("TotalCleanups = %d, want 7", s.TotalCleanups)
	}
	if s.TotalFreed != 2800 {
		t.Errorf("TotalFreed = %d, want 2800", s.TotalFreed)
	}
	cache := s.ByCategory["system.cache"]
	if cache.Cleanups != 4 || cache.BytesFreed != 1600 {
		t.Errorf("system.cache stats = %+v", cache)
	}
	if got := cache.Failures + s.ByCategory["system.logs"].Failures; got != 6 {
		t.Errorf("total failures = %d, want 6", got)
	}
	if len(s.Recent) != 5 {
		t.Fatalf("Recent = %d entries, want 5", len(s.Recent))
	}
	if !s.Recent[0].Timestamp.Equal(base.Add(6 * time.Hour)) {
		t.Errorf("most recent = %v", s.Recent[0].Timestamp)
	}
}

func TestStats_Empty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing.json")).Stats()
	if s.TotalCleanups != 0 || s.ByCategory == nil {
		t.Errorf("Stats of missing file = %+v", s)
	}
}

func TestDefaultPath(t *testing.T) {
	if p := DefaultPath(); !strings.HasSuffix(p, filepath.Join("cleanslim", "history.json")) {
		t.Errorf("DefaultPath = %q", p)
	}
}

func TestFromResults(t *testing.T) {
	at := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	results := []engine.CategoryResult{
		{Name: "system.cache", Credited: 500, Failed: 2},
		{Name: "system.logs", Err: fmt.Errorf("%w: gone", cleaner.ErrStructural)},
	}

	entries := FromResults(results, TriggerManual, at)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].BytesFreed != 500 || entries[0].Failures != 2 || entries[0].Trigger != "manual" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].BytesFreed != 0 || entries[1].Failures != 1 {
		t.Errorf("entries[1] = %+v", entries[1])
	}
	if !entries[0].Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v, want %v", entries[0].Timestamp, at)
	}
}
