package utils

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// FreeSpace returns the bytes available to the current user on the
// filesystem containing path.
func FreeSpace(path string) (int64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat filesystem: %w", err)
	}
	return int64(usage.Free), nil
}
