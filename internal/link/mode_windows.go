//go:build windows

package link

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// isLinkMode accepts symlinks and junctions. Junctions surface as irregular
// reparse points rather than symlinks.
func isLinkMode(m fs.FileMode) bool {
	return m&fs.ModeSymlink != 0 || m&fs.ModeIrregular != 0
}

func samePath(a, b string) bool {
	return strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
}
