package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/cleanslim/internal/scancache"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Measure every category",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, closeStore, err := buildEngine(false)
		if err != nil {
			return err
		}
		defer closeStore()

		if !jsonFlag {
			fmt.Println("Scanning...")
		}
		if err := scanNow(cmd.Context(), e); err != nil {
			return err
		}

		cats := e.Categories()
		snap := scancache.FromCategories(time.Now().UTC(), cats)

		cachePath := scancache.DefaultPath()
		var diff *scancache.DiffResult
		if prev, err := scancache.Load(cachePath); err == nil {
			d := scancache.Diff(prev, snap)
			diff = &d
		}
		if err := scancache.Save(cachePath, snap); err != nil {
			logger.Warn().Err(err).Msg("failed to save scan snapshot")
		}

		if jsonFlag {
			return printJSON(buildScanJSON(cats, diff))
		}
		printScanResults(os.Stdout, cats, diff)
		return nil
	},
}
