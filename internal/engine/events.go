package engine

import "github.com/lu-zhengda/cleanslim/internal/category"

// Event is a notification published by the Engine.
type Event interface {
	isEvent()
}

// StateChanged is published on every state transition.
type StateChanged struct {
	From State
	To   State
}

func (StateChanged) isEvent() {}

// ScanProgress carries the fraction of categories inspected so far.
type ScanProgress struct {
	Fraction float64
}

func (ScanProgress) isEvent() {}

// ScanCompleted is published once when a scan finishes.
type ScanCompleted struct {
	Categories []category.Category
	TotalSize  int64
}

func (ScanCompleted) isEvent() {}

// CleanProgress carries the size-weighted overall clean progress.
type CleanProgress struct {
	Fraction float64
}

func (CleanProgress) isEvent() {}

// CleanCompleted is published once when every selected category finished.
type CleanCompleted struct {
	BytesFreed int64
	Results    []CategoryResult
}

func (CleanCompleted) isEvent() {}

// SelectionChanged is published when a category's selection flips.
type SelectionChanged struct {
	Name     string
	Selected bool
}

func (SelectionChanged) isEvent() {}

// CategoryResult is the outcome of cleaning one category.
type CategoryResult struct {
	Name     string
	Path     string
	Size     int64 // measured by the preceding scan
	Credited int64
	Removed  int
	Failed   int
	Err      error // structural failure; nil when the directory was processed
}
