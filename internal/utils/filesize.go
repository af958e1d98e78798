package utils

import (
	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count with SI units, e.g. "1.5 MB".
// Negative values are treated as zero.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

// ParseSize parses sizes such as "10GB", "500 MiB" or a plain byte count.
func ParseSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}
