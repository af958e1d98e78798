package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/adrg/xdg"

	"github.com/lu-zhengda/cleanslim/internal/engine"
)

// Entry records the result of cleaning one category.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	Category   string    `json:"category"`
	BytesFreed int64     `json:"bytes_freed"`
	Failures   int       `json:"failures"`
	Trigger    string    `json:"trigger"`
}

const (
	TriggerManual   = "manual"
	TriggerSchedule = "schedule"
)

// FromResults converts the per-category results of one clean into entries.
// A structural failure counts as one failure.
func FromResults(results []engine.CategoryResult, trigger string, at time.Time) []Entry {
	entries := make([]Entry, 0, len(results))
	for _, r := range results {
		failures := r.Failed
		if r.Err != nil {
			failures++
		}
		entries = append(entries, Entry{
			Timestamp:  at,
			Category:   r.Name,
			BytesFreed: r.Credited,
			Failures:   failures,
			Trigger:    trigger,
		})
	}
	return entries
}

// CategoryStats holds aggregate statistics for a single category.
type CategoryStats struct {
	BytesFreed int64 `json:"bytes_freed"`
	Cleanups   int   `json:"cleanups"`
	Failures   int   `json:"failures"`
}

// Stats holds aggregate cleanup statistics.
type Stats struct {
	TotalFreed    int64                    `json:"total_freed"`
	TotalCleanups int                      `json:"total_cleanups"`
	ByCategory    map[string]CategoryStats `json:"by_category"`
	Recent        []Entry                  `json:"recent"`
}

const recentLimit = 5

// History manages the cleanup history file.
type History struct {
	path string
}

// New creates a new History that reads/writes the given file path.
func New(path string) *History {
	return &History{path: path}
}

// DefaultPath returns $XDG_DATA_HOME/cleanslim/history.json.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "cleanslim", "history.json")
}

// Record appends entries to the history file. A missing or corrupt file is
// started over.
func (h *History) Record(es ...Entry) error {
	if len(es) == 0 {
		return nil
	}
	entries, err := h.Load()
	if err != nil {
		entries = nil
	}

	entries = append(entries, es...)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	dir := filepath.Dir(h.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	return nil
}

// Load reads all entries from the history file.
func (h *History) Load() ([]Entry, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}

	return entries, nil
}

// Stats computes aggregate statistics from the history.
func (h *History) Stats() Stats {
	entries, err := h.Load()
	if err != nil || len(entries) == 0 {
		return Stats{
			ByCategory: make(map[string]CategoryStats),
		}
	}

	s := Stats{
		TotalCleanups: len(entries),
		ByCategory:    make(map[string]CategoryStats),
	}

	for _, e := range entries {
		s.TotalFreed += e.BytesFreed

		cs := s.ByCategory[e.Category]
		cs.BytesFreed += e.BytesFreed
		cs.Cleanups++
		cs.Failures += e.Failures
		s.ByCategory[e.Category] = cs
	}

	// Sort entries by timestamp descending for recent list.
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	s.Recent = sorted[:min(len(sorted), recentLimit)]

	return s
}
