package cleaner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrStructural marks a clean that could not start or continue at the level
// of the target directory itself. Per-item failures never produce it.
var ErrStructural = errors.New("clean target unavailable")

// maxRecordedFailures bounds Outcome.Errors for directories with many
// undeletable children.
const maxRecordedFailures = 20

// Outcome summarises one Clean call.
type Outcome struct {
	Path    string
	Total   int
	Removed int
	Failed  int
	Errors  []error
}

// RemoveFunc deletes a single entry and everything below it.
type RemoveFunc func(path string) error

// Cleaner deletes the immediate children of a directory.
type Cleaner struct {
	remove RemoveFunc
}

// New returns a Cleaner that deletes permanently.
func New() *Cleaner {
	return &Cleaner{remove: os.RemoveAll}
}

// SetRemoveFunc replaces the function used to delete each child.
func (c *Cleaner) SetRemoveFunc(fn RemoveFunc) {
	if fn == nil {
		fn = os.RemoveAll
	}
	c.remove = fn
}

// Clean removes every immediate child of path, continuing past items that
// cannot be deleted. onProgress receives processed/total after each item and
// ends at exactly 1.0. A directory with no children reports 1.0 once.
//
// The returned error wraps ErrStructural when path cannot be listed or the
// context is cancelled before every child was attempted.
func (c *Cleaner) Clean(ctx context.Context, path string, onProgress func(float64)) (Outcome, error) {
	out := Outcome{Path: path}
	report := func(f float64) {
		if onProgress != nil {
			onProgress(f)
		}
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return out, fmt.Errorf("%w: failed to list %s: %w", ErrStructural, path, err)
	}

	out.Total = len(entries)
	if out.Total == 0 {
		report(1.0)
		return out, nil
	}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("%w: %s: %w", ErrStructural, path, err)
		}

		child := filepath.Join(path, entry.Name())
		if err := c.remove(child); err != nil {
			out.Failed++
			if len(out.Errors) < maxRecordedFailures {
				out.Errors = append(out.Errors, fmt.Errorf("failed to delete %s: %w", child, err))
			}
		} else {
			out.Removed++
		}

		if i == out.Total-1 {
			report(1.0)
		} else {
			report(float64(i+1) / float64(out.Total))
		}
	}

	return out, nil
}
