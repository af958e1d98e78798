package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/cleanslim/internal/history"
	"github.com/lu-zhengda/cleanslim/internal/utils"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cleanup history and statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := history.New(history.DefaultPath()).Stats()

		if jsonFlag {
			return printJSON(buildStatsJSON(stats))
		}

		fmt.Println("cleanslim -- Cleanup Stats")
		fmt.Println()

		if stats.TotalCleanups == 0 {
			fmt.Println("  No cleanup history yet. Run 'cleanslim clean' to get started.")
			fmt.Println()
			return nil
		}

		fmt.Printf("  Total freed all-time:  %s\n", utils.FormatSize(stats.TotalFreed))
		fmt.Printf("  Total cleanups:        %d\n", stats.TotalCleanups)

		fmt.Println()
		fmt.Println("  By Category:")

		names := make([]string, 0, len(stats.ByCategory))
		for name := range stats.ByCategory {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return stats.ByCategory[names[i]].BytesFreed > stats.ByCategory[names[j]].BytesFreed
		})
		for _, name := range names {
			cs := stats.ByCategory[name]
			label := "cleanups"
			if cs.Cleanups == 1 {
				label = "cleanup"
			}
			fmt.Printf("    %-22s %10s  (%d %s", name, utils.FormatSize(cs.BytesFreed), cs.Cleanups, label)
			if cs.Failures > 0 {
				fmt.Printf(", %d failures", cs.Failures)
			}
			fmt.Println(")")
		}

		fmt.Println()
		fmt.Println("  Recent:")
		for _, e := range stats.Recent {
			fmt.Printf("    %s  %-22s %10s  (%s)\n",
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				e.Category,
				utils.FormatSize(e.BytesFreed),
				e.Trigger)
		}

		fmt.Println()
		return nil
	},
}
