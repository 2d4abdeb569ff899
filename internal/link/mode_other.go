//go:build !windows

package link

import (
	"io/fs"
	"path/filepath"
)

func isLinkMode(m fs.FileMode) bool {
	return m&fs.ModeSymlink != 0
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
