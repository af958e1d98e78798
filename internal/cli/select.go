package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/cleanslim/internal/selection"
)

var selectSaved bool

var selectCmd = &cobra.Command{
	Use:   "select [category [on|off]]",
	Short: "Show or change which categories are cleaned",
	Long:  "Without arguments, list the saved selection. With a category name, toggle it,\nor set it explicitly with on or off. Use \"all\" as the name to change every category.",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if selectSaved {
			store, closeStore, err := openStore(appConfig, false)
			if err != nil {
				return err
			}
			defer closeStore()

			known := make(map[string]bool)
			for _, d := range categoryDefinitions(appConfig) {
				known[d.Name] = true
			}
			if jsonFlag {
				saved, err := selection.Saved(store)
				if err != nil {
					return err
				}
				return printJSON(saved)
			}
			return printSavedSelection(os.Stdout, store, known)
		}

		e, closeStore, err := buildEngine(false)
		if err != nil {
			return err
		}
		defer closeStore()

		if len(args) > 0 {
			name := args[0]
			var value *bool
			if len(args) == 2 {
				v, err := parseOnOff(args[1])
				if err != nil {
					return err
				}
				value = &v
			}

			switch {
			case name == "all" && value == nil:
				err = e.SelectAll(!e.AllSelected())
			case name == "all":
				err = e.SelectAll(*value)
			case value == nil:
				_, err = e.Toggle(name)
			default:
				err = e.SetSelected(name, *value)
			}
			if err != nil {
				return fmt.Errorf("failed to update selection: %w", err)
			}
		}

		cats := e.Categories()
		if jsonFlag {
			out := make([]categoryJSON, 0, len(cats))
			for _, c := range cats {
				out = append(out, toCategoryJSON(c))
			}
			return printJSON(out)
		}
		for _, c := range cats {
			fmt.Fprintf(os.Stdout, "  %s %-16s %s\n", checkbox(c.Selected), c.Name, c.DisplayName)
		}
		return nil
	},
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q (use on or off)", s)
	}
}

// printSavedSelection lists the raw stored values, flagging names that no
// longer match a configured category.
func printSavedSelection(w io.Writer, store selection.Store, known map[string]bool) error {
	saved, err := selection.Saved(store)
	if err != nil {
		return fmt.Errorf("failed to read saved selection: %w", err)
	}

	if loc := selection.Location(store); loc != "" {
		fmt.Fprintf(w, "Saved in %s\n", loc)
	}
	if len(saved) == 0 {
		fmt.Fprintln(w, "  No saved selection; categories use their defaults.")
		return nil
	}

	names := make([]string, 0, len(saved))
	for name := range saved {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		line := fmt.Sprintf("  %s %s", checkbox(saved[name]), name)
		if !known[name] {
			line += " (unknown category)"
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func init() {
	selectCmd.Flags().BoolVar(&selectSaved, "saved", false, "List the stored selection values and where they are kept")
}
