//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// preallocate reserves [off, off+size) in fd. fallocate is advisory and not
// every filesystem supports it, so errors are dropped.
//
//nolint:gosec // G115: fd values are small non-negative integers
func preallocate(fd *os.File, off, size int64) {
	if size <= 0 {
		return
	}
	//nolint:errcheck // advisory
	unix.Fallocate(int(fd.Fd()), 0, off, size)
}
