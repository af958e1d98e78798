package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lu-zhengda/cleanslim/internal/category"
	"github.com/lu-zhengda/cleanslim/internal/config"
	"github.com/lu-zhengda/cleanslim/internal/engine"
	"github.com/lu-zhengda/cleanslim/internal/inspect"
	"github.com/lu-zhengda/cleanslim/internal/logging"
	"github.com/lu-zhengda/cleanslim/internal/selection"
	"github.com/lu-zhengda/cleanslim/internal/tui"
	"github.com/lu-zhengda/cleanslim/internal/utils"
)

var (
	jsonFlag   bool
	debugFlag  bool
	configPath string
	appConfig  *config.Config
	logger     = zerolog.Nop()

	// Set via ldflags at build time.
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "cleanslim",
	Short:   "Scan and clean cache, log and temporary directories",
	Long:    "cleanslim measures a fixed set of cache, log and temporary directories and empties the ones you select.\nLaunch without subcommands for interactive mode.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Flags().Changed("version") {
			appConfig = config.Default()
			return nil
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		appConfig = cfg

		level := appConfig.LogLevel
		if debugFlag {
			level = "debug"
		}
		logger = logging.New(os.Stderr, level)

		for _, w := range appConfig.Validate() {
			fmt.Fprintf(os.Stderr, "warning: [%s] %s\n", w.Field, w.Message)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			return cmd.Help()
		}

		e, closeStore, err := buildEngine(false)
		if err != nil {
			return err
		}
		defer closeStore()

		// Log lines would tear the alternate screen.
		e.SetLogger(zerolog.Nop())

		m := tui.New(e, appConfig.MinDuration())
		p := tea.NewProgram(m, tea.WithAltScreen())
		_, err = p.Run()
		m.Close()
		return err
	},
}

// Execute runs the root command. Cancelling ctx stops a running scan,
// clean or watch.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("cleanslim %s\n", version))
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/cleanslim/config.yaml)")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

// RootCmd returns the root cobra command for documentation generation.
func RootCmd() *cobra.Command {
	return rootCmd
}

// categoryDefinitions merges the platform defaults with the configured
// extras and removes disabled categories.
func categoryDefinitions(cfg *config.Config) []category.Definition {
	return category.Build(
		category.Defaults(utils.HomeDir()),
		cfg.Categories.Extra,
		cfg.Categories.Disabled,
	)
}

// openStore opens the configured selection backend. With ephemeral set the
// selection lives only for this process.
func openStore(cfg *config.Config, ephemeral bool) (selection.Store, func(), error) {
	if ephemeral {
		return selection.NewMemory(), func() {}, nil
	}
	backend := cfg.Selection.Backend
	path := cfg.Selection.Path
	if path == "" {
		path = selection.DefaultPath(backend)
	}
	store, err := selection.Open(backend, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open selection store: %w", err)
	}
	return store, func() {
		if err := selection.Close(store); err != nil {
			logger.Warn().Err(err).Msg("failed to close selection store")
		}
	}, nil
}

func buildEngine(ephemeral bool) (*engine.Engine, func(), error) {
	if appConfig == nil {
		appConfig = config.Default()
	}

	store, closeStore, err := openStore(appConfig, ephemeral)
	if err != nil {
		return nil, nil, err
	}

	credit, err := engine.ParseCreditPolicy(appConfig.Clean.Credit)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	e := engine.New(categoryDefinitions(appConfig), store)
	if appConfig.SizeMode == "apparent" {
		e.SetInspector(inspect.New(inspect.Apparent))
	}
	e.SetConcurrency(appConfig.Clean.Concurrency)
	e.SetCreditPolicy(credit)
	e.SetLogger(logger)
	return e, closeStore, nil
}

// scanNow runs a full scan and waits for it.
func scanNow(ctx context.Context, e *engine.Engine) error {
	if !e.StartScan(ctx) {
		return fmt.Errorf("a scan or clean is already running")
	}
	e.Wait()
	if e.State() != engine.Scanned {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("scan interrupted: %w", err)
		}
		return fmt.Errorf("scan did not complete")
	}
	return nil
}
