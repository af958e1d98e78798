//go:build unix

package inspect

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// Allocated returns the space the file occupies on disk (st_blocks * 512),
// falling back to the logical size when the file cannot be stat'd.
func Allocated(path string, info fs.FileInfo) int64 {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return info.Size()
	}
	return int64(st.Blocks) * 512
}
