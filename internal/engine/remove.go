package engine

import (
	"io/fs"
	"os"
	"path/filepath"
)

// RemoveTree deletes root and everything below it. A symlink at root is
// removed without touching its target. Read-only directories and files are
// made writable before a second attempt. A missing root is not an error.
func RemoveTree(root string) error {
	err := os.RemoveAll(root)
	if err == nil {
		return nil
	}

	// WalkDir visits a directory before reading it, so unlocking here lets
	// the walk descend into directories that had no read or search bit.
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			return nil //nolint:nilerr // best effort
		}
		switch {
		case d.IsDir():
			_ = os.Chmod(path, 0o700)
		case d.Type().IsRegular():
			_ = os.Chmod(path, 0o600)
		}
		return nil
	})

	return os.RemoveAll(root)
}
