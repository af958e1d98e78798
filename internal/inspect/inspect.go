package inspect

import (
	"context"
	"io/fs"
	"path/filepath"
)

// Stats is the aggregate of a directory tree.
type Stats struct {
	Size  int64 `json:"size"`
	Files int   `json:"files"`
}

// SizeFunc returns the number of bytes a regular file contributes.
type SizeFunc func(path string, info fs.FileInfo) int64

// Apparent counts the logical file length.
func Apparent(_ string, info fs.FileInfo) int64 {
	return info.Size()
}

// Inspector measures directory trees.
type Inspector struct {
	size SizeFunc
}

// New returns an Inspector using size to measure each file. A nil size
// defaults to Allocated.
func New(size SizeFunc) *Inspector {
	if size == nil {
		size = Allocated
	}
	return &Inspector{size: size}
}

// Inspect walks the tree under path and sums the size and count of every
// regular file. Symlinks are not followed and are not counted. Entries that
// cannot be read are skipped, so the result is best-effort and never an
// error. A missing path yields zero Stats.
func (in *Inspector) Inspect(ctx context.Context, path string) Stats {
	// Resolve a symlinked root (e.g. /tmp on macOS); links below it stay unfollowed.
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	var st Stats
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if err != nil {
			return nil // skip unreadable entries
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil // removed while walking
		}
		st.Size += in.size(p, info)
		st.Files++
		return nil
	})
	return st
}
