package cli

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/lu-zhengda/cleanslim/internal/config"
	"github.com/lu-zhengda/cleanslim/internal/engine"
	"github.com/lu-zhengda/cleanslim/internal/history"
	"github.com/lu-zhengda/cleanslim/internal/scancache"
	"github.com/lu-zhengda/cleanslim/internal/utils"
)

var (
	watchScan  string
	watchClean string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scan and clean on a cron schedule",
	Long:  "Run in the foreground, scanning on schedule.scan and cleaning every category on schedule.clean.\nA scheduled clean always rescans first. Stop with Ctrl+C.",
	RunE: func(cmd *cobra.Command, args []string) error {
		scanSpec := watchScan
		if scanSpec == "" {
			scanSpec = appConfig.Schedule.Scan
		}
		cleanSpec := watchClean
		if cleanSpec == "" {
			cleanSpec = appConfig.Schedule.Clean
		}
		if scanSpec == "" && cleanSpec == "" {
			return fmt.Errorf("no schedule configured (set schedule.scan or schedule.clean, or pass --scan/--clean)")
		}

		// Scheduled cleans select everything; keep the saved selection untouched.
		e, closeStore, err := buildEngine(true)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx := cmd.Context()
		triggers := make(chan engine.Trigger, 4)
		w := &watcher{ctx: ctx, triggers: triggers}
		e.Subscribe(w.handle)

		c := cron.New(cron.WithParser(config.ScheduleParser))
		if scanSpec != "" {
			if _, err := c.AddFunc(scanSpec, func() { w.send(engine.TriggerReset) }); err != nil {
				return fmt.Errorf("invalid scan schedule %q: %w", scanSpec, err)
			}
		}
		if cleanSpec != "" {
			if _, err := c.AddFunc(cleanSpec, func() {
				w.pendingClean.Store(true)
				w.send(engine.TriggerReset)
			}); err != nil {
				return fmt.Errorf("invalid clean schedule %q: %w", cleanSpec, err)
			}
		}

		if !jsonFlag {
			fmt.Printf("Watching (scan: %q, clean: %q). Press Ctrl+C to stop.\n", scanSpec, cleanSpec)
		}
		c.Start()
		defer func() { <-c.Stop().Done() }()

		e.Run(ctx, triggers)
		return nil
	},
}

// watcher turns engine events into log lines, history entries and the
// follow-up clean of a scheduled clean.
type watcher struct {
	ctx          context.Context
	triggers     chan<- engine.Trigger
	pendingClean atomic.Bool
}

// send delivers a trigger without blocking the event publisher.
func (w *watcher) send(t engine.Trigger) {
	go func() {
		select {
		case w.triggers <- t:
		case <-w.ctx.Done():
		}
	}()
}

func (w *watcher) handle(ev engine.Event) {
	switch ev := ev.(type) {
	case engine.ScanCompleted:
		logger.Info().Str("total", utils.FormatSize(ev.TotalSize)).Msg("scan finished")
		if err := scancache.Save(scancache.DefaultPath(), scancache.FromCategories(time.Now().UTC(), ev.Categories)); err != nil {
			logger.Warn().Err(err).Msg("failed to save scan snapshot")
		}
		if w.pendingClean.CompareAndSwap(true, false) {
			w.send(engine.TriggerCleanAll)
		}
	case engine.CleanCompleted:
		logger.Info().Str("freed", utils.FormatSize(ev.BytesFreed)).Int("categories", len(ev.Results)).Msg("clean finished")
		entries := history.FromResults(ev.Results, history.TriggerSchedule, time.Now())
		if err := history.New(history.DefaultPath()).Record(entries...); err != nil {
			logger.Warn().Err(err).Msg("failed to record history")
		}
	}
}

func init() {
	watchCmd.Flags().StringVar(&watchScan, "scan", "", "Cron expression for scans (overrides schedule.scan)")
	watchCmd.Flags().StringVar(&watchClean, "clean", "", "Cron expression for cleans (overrides schedule.clean)")
}
