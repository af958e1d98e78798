package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lu-zhengda/cleanslim/internal/category"
	"github.com/lu-zhengda/cleanslim/internal/engine"
	"github.com/lu-zhengda/cleanslim/internal/scancache"
	"github.com/lu-zhengda/cleanslim/internal/utils"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkbox(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}

// printScanResults writes one row per category followed by the total and,
// when diff is non-nil, the change since the previous scan.
func printScanResults(w io.Writer, cats []category.Category, diff *scancache.DiffResult) {
	if len(cats) == 0 {
		fmt.Fprintln(w, "No categories configured.")
		return
	}

	var total, selected int64
	fmt.Fprintln(w)
	for _, c := range cats {
		total += c.Size
		if c.Selected {
			selected += c.Size
		}
		line := fmt.Sprintf("  %s %-26s %10s %8d files  %s",
			checkbox(c.Selected), c.DisplayName, utils.FormatSize(c.Size), c.Files, truncatePath(c.Path, 40))
		if diff != nil {
			if d, ok := diff.Categories[c.Name]; ok && !d.IsNew && d.Delta != 0 {
				line += "  " + formatDelta(d.Delta)
			}
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Total: %s (selected: %s)\n", utils.FormatSize(total), utils.FormatSize(selected))
	if diff != nil && diff.TotalDelta != 0 {
		fmt.Fprintf(w, "Since %s: %s\n", diff.PreviousTimestamp.Local().Format("2006-01-02 15:04"), formatDelta(diff.TotalDelta))
	}
}

// printCleanResults writes one row per cleaned category.
func printCleanResults(w io.Writer, results []engine.CategoryResult) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "  %-26s failed: %v\n", r.Name, r.Err)
		case r.Failed > 0:
			fmt.Fprintf(w, "  %-26s %10s  (%d removed, %d could not be deleted)\n",
				r.Name, utils.FormatSize(r.Credited), r.Removed, r.Failed)
		default:
			fmt.Fprintf(w, "  %-26s %10s  (%d removed)\n", r.Name, utils.FormatSize(r.Credited), r.Removed)
		}
	}
}

func formatDelta(delta int64) string {
	if delta < 0 {
		return "-" + utils.FormatSize(-delta)
	}
	return "+" + utils.FormatSize(delta)
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

func confirmAction(in io.Reader, prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var response string
	fmt.Fscanln(in, &response)
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}
