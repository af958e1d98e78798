package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lu-zhengda/cleanslim/internal/category"
	"github.com/lu-zhengda/cleanslim/internal/cleaner"
	"github.com/lu-zhengda/cleanslim/internal/inspect"
	"github.com/lu-zhengda/cleanslim/internal/progress"
	"github.com/lu-zhengda/cleanslim/internal/selection"
)

// ErrUnknownCategory is returned for selection changes naming a category
// that is not registered.
var ErrUnknownCategory = errors.New("unknown category")

// State is the engine's current phase.
type State int

const (
	Idle State = iota
	Scanning
	Scanned
	Cleaning
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Scanned:
		return "scanned"
	case Cleaning:
		return "cleaning"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// CreditPolicy decides how many bytes a cleaned category counts as freed.
type CreditPolicy int

const (
	// CreditScanned credits the full scanned size of every category whose
	// directory could be processed, even if some children survived.
	CreditScanned CreditPolicy = iota
	// CreditMeasured re-inspects the directory after cleaning and credits
	// only the difference.
	CreditMeasured
)

func (p CreditPolicy) String() string {
	if p == CreditMeasured {
		return "measured"
	}
	return "scanned"
}

// ParseCreditPolicy parses "scanned" or "measured". Empty means scanned.
func ParseCreditPolicy(s string) (CreditPolicy, error) {
	switch s {
	case "", "scanned":
		return CreditScanned, nil
	case "measured":
		return CreditMeasured, nil
	default:
		return CreditScanned, fmt.Errorf("unknown credit policy %q (use scanned or measured)", s)
	}
}

// Inspector measures a directory tree.
type Inspector interface {
	Inspect(ctx context.Context, path string) inspect.Stats
}

// Cleaner empties a directory.
type Cleaner interface {
	Clean(ctx context.Context, path string, onProgress func(float64)) (cleaner.Outcome, error)
}

// Snapshot is a copy of the engine's observable state.
type Snapshot struct {
	State         State
	Categories    []category.Category
	TotalSize     int64
	ScanProgress  float64
	CleanProgress float64
	CleanedSize   int64
	Results       []CategoryResult
}

// Engine owns the category collection and drives scan, select, and clean.
// Scanning inspects one category at a time on a background goroutine;
// cleaning runs one goroutine per selected category and folds their
// progress through a single consumer.
type Engine struct {
	inspector   Inspector
	cleaner     Cleaner
	store       selection.Store
	log         zerolog.Logger
	concurrency int
	credit      CreditPolicy

	mu            sync.Mutex
	state         State
	categories    []category.Category
	totalSize     int64
	scanProgress  float64
	cleanProgress float64
	cleanedSize   int64
	results       []CategoryResult

	// selMu orders selection changes across memory and the store.
	selMu sync.Mutex

	wg sync.WaitGroup

	pubMu  sync.Mutex
	subMu  sync.RWMutex
	subs   map[int]func(Event)
	nextID int
}

// New creates an engine for the given categories. Stored selections
// override each definition's default; a nil store keeps selections in memory.
func New(defs []category.Definition, store selection.Store) *Engine {
	if store == nil {
		store = selection.NewMemory()
	}

	cats := make([]category.Category, 0, len(defs))
	for _, d := range defs {
		c := category.New(d)
		if v, ok := store.Get(d.Name); ok {
			c.Selected = v
		}
		cats = append(cats, c)
	}

	return &Engine{
		inspector:  inspect.New(inspect.Allocated),
		cleaner:    cleaner.New(),
		store:      store,
		log:        zerolog.Nop(),
		categories: cats,
		subs:       make(map[int]func(Event)),
	}
}

// SetInspector replaces the directory measurer used by scans and measured credit.
func (e *Engine) SetInspector(in Inspector) {
	e.inspector = in
}

// SetCleaner replaces the directory cleaner.
func (e *Engine) SetCleaner(c Cleaner) {
	e.cleaner = c
}

// SetLogger sets the logger for engine diagnostics.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.log = l
}

// SetConcurrency caps the number of categories cleaned at once. Zero or
// less means one goroutine per selected category.
func (e *Engine) SetConcurrency(n int) {
	e.concurrency = n
}

// SetCreditPolicy chooses how cleaned bytes are counted as freed.
func (e *Engine) SetCreditPolicy(p CreditPolicy) {
	e.credit = p
}

// State returns the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		State:         e.state,
		Categories:    append([]category.Category(nil), e.categories...),
		TotalSize:     e.totalSize,
		ScanProgress:  e.scanProgress,
		CleanProgress: e.cleanProgress,
		CleanedSize:   e.cleanedSize,
		Results:       append([]CategoryResult(nil), e.results...),
	}
}

// Categories returns a copy of the category collection.
func (e *Engine) Categories() []category.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]category.Category(nil), e.categories...)
}

// Wait blocks until any running scan or clean has finished and published
// its events.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it. Events are delivered one at a time, in the order they
// were produced, on the goroutine that produced them. fn must not call
// Engine methods that publish (selection changes, Reset) synchronously.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.subMu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.subMu.Lock()
			delete(e.subs, id)
			e.subMu.Unlock()
		})
	}
}

func (e *Engine) publish(ev Event) {
	e.pubMu.Lock()
	defer e.pubMu.Unlock()

	e.subMu.RLock()
	subs := make([]func(Event), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.subMu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// StartScan begins measuring every category in the background. It returns
// false without doing anything while a scan or clean is in progress.
func (e *Engine) StartScan(ctx context.Context) bool {
	e.mu.Lock()
	if e.state == Scanning || e.state == Cleaning {
		e.mu.Unlock()
		e.log.Debug().Str("state", e.state.String()).Msg("scan request ignored")
		return false
	}
	from := e.state
	e.state = Scanning
	e.scanProgress = 0
	e.totalSize = 0
	paths := make([]string, len(e.categories))
	for i, c := range e.categories {
		paths[i] = c.Path
	}
	e.wg.Add(1)
	e.mu.Unlock()

	go e.runScan(ctx, from, paths)
	return true
}

func (e *Engine) runScan(ctx context.Context, from State, paths []string) {
	defer e.wg.Done()
	e.publish(StateChanged{From: from, To: Scanning})
	e.log.Debug().Int("categories", len(paths)).Msg("scan started")

	for i, p := range paths {
		if ctx.Err() != nil {
			e.abortScan(ctx.Err())
			return
		}

		st := e.inspector.Inspect(ctx, p)
		if ctx.Err() != nil {
			// a cancelled walk is partial; do not record it
			e.abortScan(ctx.Err())
			return
		}

		frac := progress.ScanFraction(i+1, len(paths))
		e.mu.Lock()
		c := &e.categories[i]
		c.Size = st.Size
		c.Files = st.Files
		c.Scanned = true
		e.scanProgress = frac
		name := c.Name
		e.mu.Unlock()

		e.log.Debug().Str("category", name).Str("path", p).Int64("size", st.Size).Int("files", st.Files).Msg("category inspected")
		e.publish(ScanProgress{Fraction: frac})
	}

	e.mu.Lock()
	var total int64
	for _, c := range e.categories {
		total += c.Size
	}
	e.totalSize = total
	e.scanProgress = 1.0
	e.state = Scanned
	cats := append([]category.Category(nil), e.categories...)
	e.mu.Unlock()

	if len(paths) == 0 {
		e.publish(ScanProgress{Fraction: 1.0})
	}
	e.log.Debug().Int64("total", total).Msg("scan finished")
	e.publish(StateChanged{From: Scanning, To: Scanned})
	e.publish(ScanCompleted{Categories: cats, TotalSize: total})
}

func (e *Engine) abortScan(err error) {
	e.mu.Lock()
	e.state = Idle
	e.mu.Unlock()
	e.log.Warn().Err(err).Msg("scan interrupted")
	e.publish(StateChanged{From: Scanning, To: Idle})
}

type cleanTarget struct {
	index int // into e.categories
	name  string
	path  string
	size  int64
}

type cleanEvent struct {
	slot     int // into the targets slice
	fraction float64
	done     bool
	result   CategoryResult
}

// StartClean snapshots the selected categories and cleans them
// concurrently in the background. It only acts in the Scanned state, so
// sizes are never reused from before an earlier clean, and returns false
// when nothing is selected.
func (e *Engine) StartClean(ctx context.Context) bool {
	e.mu.Lock()
	if e.state != Scanned {
		st := e.state
		e.mu.Unlock()
		e.log.Debug().Str("state", st.String()).Msg("clean request ignored")
		return false
	}

	var targets []cleanTarget
	for i, c := range e.categories {
		if c.Selected {
			targets = append(targets, cleanTarget{index: i, name: c.Name, path: c.Path, size: c.Size})
		}
	}
	if len(targets) == 0 {
		e.mu.Unlock()
		e.log.Debug().Msg("clean request ignored: nothing selected")
		return false
	}

	e.state = Cleaning
	e.cleanProgress = 0
	e.cleanedSize = 0
	e.results = nil
	e.wg.Add(1)
	e.mu.Unlock()

	go e.runClean(ctx, targets)
	return true
}

func (e *Engine) runClean(ctx context.Context, targets []cleanTarget) {
	defer e.wg.Done()
	e.publish(StateChanged{From: Scanned, To: Cleaning})

	sizes := make([]int64, len(targets))
	for i, t := range targets {
		sizes[i] = t.size
	}
	agg := progress.NewAggregator(sizes)

	if agg.Complete() {
		// Nothing measurable to reclaim.
		results := make([]CategoryResult, len(targets))
		for i, t := range targets {
			results[i] = CategoryResult{Name: t.name, Path: t.path}
		}
		e.setCleanProgress(1.0)
		e.publish(CleanProgress{Fraction: 1.0})
		e.finishClean(nil, results, 0)
		return
	}

	e.log.Debug().Int("categories", len(targets)).Int("limit", e.concurrency).Msg("clean started")

	events := make(chan cleanEvent, 64)
	var g errgroup.Group
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}
	go func() {
		for slot, t := range targets {
			g.Go(func() error {
				e.cleanOne(ctx, slot, t, events)
				return nil
			})
		}
		_ = g.Wait()
		close(events)
	}()

	results := make([]CategoryResult, len(targets))
	last := 0.0
	for ev := range events {
		var overall float64
		var complete bool
		if ev.done {
			results[ev.slot] = ev.result
			overall, complete = agg.Finish(ev.slot, ev.result.Credited)
		} else {
			overall = agg.Update(ev.slot, ev.fraction)
		}

		if overall > last {
			last = overall
			e.setCleanProgress(overall)
			e.publish(CleanProgress{Fraction: overall})
		}
		if complete {
			e.finishClean(targets, results, agg.Freed())
		}
	}
}

func (e *Engine) cleanOne(ctx context.Context, slot int, t cleanTarget, events chan<- cleanEvent) {
	out, err := e.cleaner.Clean(ctx, t.path, func(f float64) {
		events <- cleanEvent{slot: slot, fraction: f}
	})

	res := CategoryResult{
		Name:    t.name,
		Path:    t.path,
		Size:    t.size,
		Removed: out.Removed,
		Failed:  out.Failed,
		Err:     err,
	}

	log := e.log.With().Str("category", t.name).Str("path", t.path).Logger()
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("category not cleaned")
	case e.credit == CreditMeasured:
		after := e.inspector.Inspect(ctx, t.path)
		if freed := t.size - after.Size; freed > 0 {
			res.Credited = freed
		}
	default:
		res.Credited = t.size
	}
	if err == nil && out.Failed > 0 {
		ev := log.Warn().Int("failed", out.Failed).Int("removed", out.Removed)
		if len(out.Errors) > 0 {
			ev = ev.AnErr("first", out.Errors[0])
		}
		ev.Msg("some items could not be deleted")
	}

	events <- cleanEvent{slot: slot, done: true, result: res}
}

func (e *Engine) setCleanProgress(f float64) {
	e.mu.Lock()
	e.cleanProgress = f
	e.mu.Unlock()
}

func (e *Engine) finishClean(targets []cleanTarget, results []CategoryResult, freed int64) {
	e.mu.Lock()
	for _, t := range targets {
		e.categories[t.index].Invalidate()
	}
	var total int64
	for _, c := range e.categories {
		total += c.Size
	}
	e.totalSize = total
	e.cleanedSize = freed
	e.cleanProgress = 1.0
	e.results = results
	e.state = Completed
	e.mu.Unlock()

	e.log.Debug().Int64("freed", freed).Msg("clean finished")
	e.publish(StateChanged{From: Cleaning, To: Completed})
	e.publish(CleanCompleted{BytesFreed: freed, Results: append([]CategoryResult(nil), results...)})
}

// Reset clears the previous run and starts a new scan. It does nothing
// while a scan or clean is in progress.
func (e *Engine) Reset(ctx context.Context) bool {
	e.mu.Lock()
	if e.state == Scanning || e.state == Cleaning {
		e.mu.Unlock()
		return false
	}
	from := e.state
	e.state = Idle
	e.cleanProgress = 0
	e.cleanedSize = 0
	e.results = nil
	e.mu.Unlock()

	if from != Idle {
		e.publish(StateChanged{From: from, To: Idle})
	}
	return e.StartScan(ctx)
}
