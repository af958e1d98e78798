package engine

import (
	"sync"
	"time"
)

// Floor wraps an event handler so that the end of a scan is not delivered
// until scanMin has passed since it started, and likewise for a clean with
// cleanMin. Events are held, never dropped or reordered. A zero duration
// disables the floor for that phase.
func Floor(scanMin, cleanMin time.Duration, next func(Event)) func(Event) {
	var (
		mu      sync.Mutex
		started time.Time
	)
	return func(ev Event) {
		var wait time.Duration
		if sc, ok := ev.(StateChanged); ok {
			mu.Lock()
			switch sc.To {
			case Scanning, Cleaning:
				started = time.Now()
			case Scanned:
				wait = scanMin - time.Since(started)
			case Completed:
				wait = cleanMin - time.Since(started)
			}
			mu.Unlock()
		}
		if wait > 0 {
			time.Sleep(wait)
		}
		next(ev)
	}
}
