// Package progress folds per-category progress into one overall fraction.
//
// Scan progress is linear in the number of categories inspected. Clean
// progress is weighted by each category's share of the selected bytes, so a
// large cache finishing moves the bar further than a small one.
package progress

import "sync"

// ScanFraction returns the scan progress after done of total categories have
// been inspected.
func ScanFraction(done, total int) float64 {
	if total <= 0 || done >= total {
		return 1.0
	}
	if done <= 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// Aggregator tracks the clean phase across concurrently running categories.
// It is safe for concurrent use. Overall progress never decreases and never
// exceeds 1.0, and Finish reports completion exactly once.
type Aggregator struct {
	mu        sync.Mutex
	weights   []float64
	fractions []float64
	finished  []bool
	remaining int
	overall   float64
	freed     int64
	complete  bool
}

// NewAggregator prepares an aggregator for categories with the given
// pre-clean sizes. When the sizes sum to zero the aggregator starts complete
// at 1.0 with nothing freed.
func NewAggregator(sizes []int64) *Aggregator {
	a := &Aggregator{
		weights:   make([]float64, len(sizes)),
		fractions: make([]float64, len(sizes)),
		finished:  make([]bool, len(sizes)),
		remaining: len(sizes),
	}

	var total int64
	for _, s := range sizes {
		if s > 0 {
			total += s
		}
	}
	if total == 0 {
		a.overall = 1.0
		a.complete = true
		return a
	}
	for i, s := range sizes {
		if s > 0 {
			a.weights[i] = float64(s) / float64(total)
		}
	}
	return a
}

// Update records category i's own progress and returns the overall value.
func (a *Aggregator) Update(i int, fraction float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.complete || i < 0 || i >= len(a.fractions) || a.finished[i] {
		return a.overall
	}
	a.set(i, fraction)
	return a.overall
}

// Finish marks category i as done, crediting credited bytes. It returns the
// overall progress and true on the single call that completes the run.
// Repeated calls for the same category are ignored.
func (a *Aggregator) Finish(i int, credited int64) (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.complete || i < 0 || i >= len(a.finished) || a.finished[i] {
		return a.overall, false
	}

	a.finished[i] = true
	a.remaining--
	if credited > 0 {
		a.freed += credited
	}
	a.set(i, 1.0)

	if a.remaining == 0 {
		a.overall = 1.0
		a.complete = true
		return a.overall, true
	}
	return a.overall, false
}

// Overall returns the current overall progress.
func (a *Aggregator) Overall() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overall
}

// Freed returns the bytes credited so far.
func (a *Aggregator) Freed() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.freed
}

// Complete reports whether every category has finished.
func (a *Aggregator) Complete() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.complete
}

// set must be called with mu held.
func (a *Aggregator) set(i int, fraction float64) {
	if fraction > 1 {
		fraction = 1
	}
	if fraction > a.fractions[i] {
		a.fractions[i] = fraction
	}

	var sum float64
	for j, w := range a.weights {
		sum += w * a.fractions[j]
	}
	if sum > 1 {
		sum = 1
	}
	if sum > a.overall {
		a.overall = sum
	}
}
