package engine

import (
	"context"
	"fmt"
)

// Trigger is an external request delivered to Run.
type Trigger string

const (
	TriggerScanNow  Trigger = "scan-now"
	TriggerCleanAll Trigger = "clean-all"
	TriggerReset    Trigger = "reset"
)

// ParseTrigger accepts the trigger names used on the command line.
func ParseTrigger(s string) (Trigger, error) {
	switch t := Trigger(s); t {
	case TriggerScanNow, TriggerCleanAll, TriggerReset:
		return t, nil
	default:
		return "", fmt.Errorf("unknown trigger %q", s)
	}
}

// Run handles triggers until ctx is cancelled or the channel is closed,
// then waits for in-flight work to finish.
func (e *Engine) Run(ctx context.Context, triggers <-chan Trigger) {
	defer e.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-triggers:
			if !ok {
				return
			}
			e.Handle(ctx, t)
		}
	}
}

// Handle applies a single trigger and reports whether it started work.
// Clean-all selects every category and cleans, but only once a scan has
// produced current sizes.
func (e *Engine) Handle(ctx context.Context, t Trigger) bool {
	var started bool
	switch t {
	case TriggerScanNow:
		started = e.StartScan(ctx)
	case TriggerCleanAll:
		if e.State() != Scanned {
			break
		}
		if err := e.SelectAll(true); err != nil {
			e.log.Warn().Err(err).Msg("failed to select all categories")
		}
		started = e.StartClean(ctx)
	case TriggerReset:
		started = e.Reset(ctx)
	}
	e.log.Debug().Str("trigger", string(t)).Bool("started", started).Msg("trigger handled")
	return started
}
