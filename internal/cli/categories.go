package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/cleanslim/internal/category"
	"github.com/lu-zhengda/cleanslim/internal/utils"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the configured categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs := categoryDefinitions(appConfig)

		if jsonFlag {
			out := make([]categoryJSON, 0, len(defs))
			for _, d := range defs {
				out = append(out, toCategoryJSON(category.New(d)))
			}
			return printJSON(out)
		}

		for _, d := range defs {
			c := category.New(d)
			path := c.Path
			if !utils.DirExists(path) {
				path += " (missing)"
			}
			fmt.Printf("%-16s %-26s %s\n", c.Name, c.DisplayName, path)
			fmt.Printf("%-16s id %s\n", "", c.ID)
		}
		return nil
	},
}
