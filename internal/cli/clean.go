package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lu-zhengda/cleanslim/internal/engine"
	"github.com/lu-zhengda/cleanslim/internal/history"
	"github.com/lu-zhengda/cleanslim/internal/utils"
)

var (
	cleanAll    bool
	cleanOnly   []string
	cleanYes    bool
	cleanDryRun bool
	cleanQuiet  bool
	cleanMin    string
)

// cleanPrint prints to stdout only when neither --quiet nor --json is set.
func cleanPrint(format string, a ...any) {
	if !cleanQuiet && !jsonFlag {
		fmt.Printf(format, a...)
	}
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Empty the selected categories",
	Long:  "Scan every category, then delete the contents of the selected ones.\nThe directories themselves are kept. Use --all or --only to override the saved selection for this run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var minSize int64
		if cleanMin != "" {
			n, err := utils.ParseSize(cleanMin)
			if err != nil {
				return fmt.Errorf("invalid --min-size %q: %w", cleanMin, err)
			}
			minSize = n
		}

		override := cleanAll || len(cleanOnly) > 0 || minSize > 0
		e, closeStore, err := buildEngine(override)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := applySelectionOverride(e, cleanAll, cleanOnly); err != nil {
			return err
		}

		cleanPrint("Scanning...\n")
		if err := scanNow(ctx, e); err != nil {
			return err
		}
		if err := deselectSmall(e, minSize); err != nil {
			return err
		}

		cats := e.Categories()
		var selectedSize int64
		var selected int
		for _, c := range cats {
			if c.Selected {
				selected++
				selectedSize += c.Size
			}
		}
		if !cleanQuiet && !jsonFlag {
			printScanResults(os.Stdout, cats, nil)
		}
		if selected == 0 {
			cleanPrint("Nothing selected. Use 'cleanslim select' or --all.\n")
			return nil
		}

		if cleanDryRun {
			if jsonFlag {
				out := buildCleanJSON(nil, 0)
				out.DryRun = true
				return printJSON(out)
			}
			cleanPrint("\n[DRY RUN] Would empty %d categories (%s).\n", selected, utils.FormatSize(selectedSize))
			cleanPrint("[DRY RUN] No files were deleted.\n")
			return nil
		}

		if !cleanYes {
			if !confirmAction(os.Stdin, fmt.Sprintf("\nPermanently delete the contents of %d categories (%s)?", selected, utils.FormatSize(selectedSize))) {
				cleanPrint("Cancelled.\n")
				return nil
			}
		}

		root := utils.HomeDir()
		freeBefore, freeErr := utils.FreeSpace(root)

		done, err := runClean(ctx, e, !cleanQuiet && !jsonFlag && isatty.IsTerminal(os.Stderr.Fd()))
		if err != nil {
			return err
		}

		if err := history.New(history.DefaultPath()).Record(history.FromResults(done.Results, history.TriggerManual, time.Now())...); err != nil {
			logger.Warn().Err(err).Msg("failed to record history")
		}

		out := buildCleanJSON(done.Results, done.BytesFreed)
		if freeErr == nil {
			if freeAfter, err := utils.FreeSpace(root); err == nil {
				out.FreeBefore = freeBefore
				out.FreeAfter = freeAfter
			}
		}
		if jsonFlag {
			return printJSON(out)
		}

		if !cleanQuiet {
			fmt.Println()
			printCleanResults(os.Stdout, done.Results)
		}
		cleanPrint("\nFreed %s", utils.FormatSize(done.BytesFreed))
		if out.FreeAfter > 0 {
			cleanPrint(" (free space %s -> %s)", utils.FormatSize(out.FreeBefore), utils.FormatSize(out.FreeAfter))
		}
		cleanPrint("\n")
		return nil
	},
}

// applySelectionOverride selects every category for --all, or exactly the
// named ones for --only.
func applySelectionOverride(e *engine.Engine, all bool, only []string) error {
	switch {
	case all:
		return e.SelectAll(true)
	case len(only) > 0:
		if err := e.SelectAll(false); err != nil {
			return err
		}
		for _, name := range only {
			if err := e.SetSelected(strings.TrimSpace(name), true); err != nil {
				return err
			}
		}
	}
	return nil
}

// deselectSmall drops selected categories whose scanned size is below threshold.
func deselectSmall(e *engine.Engine, threshold int64) error {
	if threshold <= 0 {
		return nil
	}
	for _, c := range e.Categories() {
		if c.Selected && c.Size < threshold {
			if err := e.SetSelected(c.Name, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// runClean starts a clean and waits for its completion event, drawing a
// progress line on stderr when showProgress is set.
func runClean(ctx context.Context, e *engine.Engine, showProgress bool) (engine.CleanCompleted, error) {
	var done engine.CleanCompleted
	unsubscribe := e.Subscribe(func(ev engine.Event) {
		switch ev := ev.(type) {
		case engine.CleanProgress:
			if showProgress {
				fmt.Fprintf(os.Stderr, "\rCleaning... %3.0f%%", ev.Fraction*100)
			}
		case engine.CleanCompleted:
			done = ev
		}
	})
	defer unsubscribe()

	if !e.StartClean(ctx) {
		return done, fmt.Errorf("clean could not start")
	}
	e.Wait()
	if showProgress {
		fmt.Fprintln(os.Stderr)
	}
	return done, nil
}

func init() {
	f := cleanCmd.Flags()
	f.BoolVar(&cleanAll, "all", false, "Clean every category regardless of the saved selection")
	f.StringSliceVar(&cleanOnly, "only", nil, "Clean only the named categories (comma separated)")
	f.BoolVarP(&cleanYes, "yes", "y", false, "Skip confirmation prompt")
	f.BoolVar(&cleanDryRun, "dry-run", false, "Show what would be deleted without deleting")
	f.BoolVarP(&cleanQuiet, "quiet", "q", false, "Suppress all output (for scheduled runs)")
	f.StringVar(&cleanMin, "min-size", "", "Skip categories smaller than this size (e.g. 100MB)")
	cleanCmd.MarkFlagsMutuallyExclusive("all", "only")
}
