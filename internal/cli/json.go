package cli

import (
	"time"

	"github.com/lu-zhengda/cleanslim/internal/category"
	"github.com/lu-zhengda/cleanslim/internal/engine"
	"github.com/lu-zhengda/cleanslim/internal/history"
	"github.com/lu-zhengda/cleanslim/internal/scancache"
)

// ---------------------------------------------------------------------------
// Scan JSON types
// ---------------------------------------------------------------------------

type scanJSON struct {
	Version      string                `json:"version"`
	Timestamp    time.Time             `json:"timestamp"`
	Categories   []categoryJSON        `json:"categories"`
	TotalSize    int64                 `json:"total_size"`
	SelectedSize int64                 `json:"selected_size"`
	Diff         *scancache.DiffResult `json:"diff,omitempty"`
}

type categoryJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Display  string `json:"display_name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Files    int    `json:"files"`
	Selected bool   `json:"selected"`
}

func toCategoryJSON(c category.Category) categoryJSON {
	return categoryJSON{
		ID:       c.ID.String(),
		Name:     c.Name,
		Display:  c.DisplayName,
		Path:     c.Path,
		Size:     c.Size,
		Files:    c.Files,
		Selected: c.Selected,
	}
}

func buildScanJSON(cats []category.Category, diff *scancache.DiffResult) scanJSON {
	result := scanJSON{
		Version:    version,
		Timestamp:  time.Now().UTC(),
		Categories: make([]categoryJSON, 0, len(cats)),
		Diff:       diff,
	}
	for _, c := range cats {
		result.Categories = append(result.Categories, toCategoryJSON(c))
		result.TotalSize += c.Size
		if c.Selected {
			result.SelectedSize += c.Size
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Clean JSON type
// ---------------------------------------------------------------------------

type cleanJSON struct {
	Version    string            `json:"version"`
	Timestamp  time.Time         `json:"timestamp"`
	DryRun     bool              `json:"dry_run,omitempty"`
	BytesFreed int64             `json:"bytes_freed"`
	FreeBefore int64             `json:"free_before,omitempty"`
	FreeAfter  int64             `json:"free_after,omitempty"`
	Results    []cleanResultJSON `json:"results"`
}

type cleanResultJSON struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Credited int64  `json:"credited"`
	Removed  int    `json:"removed"`
	Failed   int    `json:"failed"`
	Error    string `json:"error,omitempty"`
}

func buildCleanJSON(results []engine.CategoryResult, freed int64) cleanJSON {
	out := cleanJSON{
		Version:    version,
		Timestamp:  time.Now().UTC(),
		BytesFreed: freed,
		Results:    make([]cleanResultJSON, 0, len(results)),
	}
	for _, r := range results {
		rj := cleanResultJSON{
			Name:     r.Name,
			Path:     r.Path,
			Size:     r.Size,
			Credited: r.Credited,
			Removed:  r.Removed,
			Failed:   r.Failed,
		}
		if r.Err != nil {
			rj.Error = r.Err.Error()
		}
		out.Results = append(out.Results, rj)
	}
	return out
}

// ---------------------------------------------------------------------------
// Stats JSON type
// ---------------------------------------------------------------------------

type statsJSON struct {
	Version       string                           `json:"version"`
	TotalFreed    int64                            `json:"total_freed"`
	TotalCleanups int                              `json:"total_cleanups"`
	ByCategory    map[string]history.CategoryStats `json:"by_category"`
	Recent        []history.Entry                  `json:"recent"`
}

// buildStatsJSON converts history stats into a JSON-serializable structure.
func buildStatsJSON(stats history.Stats) statsJSON {
	return statsJSON{
		Version:       version,
		TotalFreed:    stats.TotalFreed,
		TotalCleanups: stats.TotalCleanups,
		ByCategory:    stats.ByCategory,
		Recent:        stats.Recent,
	}
}
