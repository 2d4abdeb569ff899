package engine

import (
	"fmt"
	"os"
)

const specialBits = os.ModeSetuid | os.ModeSetgid | os.ModeSticky

// applyFileMetadata copies ownership, permission bits and extended
// attributes from the source onto the still-open temporary file.
// Ownership is best effort: it needs privileges the process usually lacks.
func applyFileMetadata(task FileTask, fd *os.File) error {
	// chown clears setuid and setgid, so the mode goes after it.
	_ = fd.Chown(int(task.UID), int(task.GID))
	if err := fd.Chmod(task.Mode & (os.ModePerm | specialBits)); err != nil {
		return fmt.Errorf("chmod %s: %w", fd.Name(), err)
	}
	copyXattrs(task.SrcPath, fd)
	return nil
}

// applyTimes sets access and modification times by path, after the data is
// written and the file closed.
func applyTimes(path string, task FileTask) error {
	if err := os.Chtimes(path, task.AccTime, task.ModTime); err != nil {
		return fmt.Errorf("chtimes %s: %w", path, err)
	}
	return nil
}

// applyDirMetadata restores a directory's mode, which was widened to 0700
// while its children were written, and optionally its owner and times.
func applyDirMetadata(task FileTask, preserve bool) error {
	mode := task.Mode.Perm()
	if preserve {
		_ = os.Lchown(task.DstPath, int(task.UID), int(task.GID))
		mode = task.Mode & (os.ModePerm | specialBits)
	}
	if err := os.Chmod(task.DstPath, mode); err != nil {
		return fmt.Errorf("chmod dir %s: %w", task.DstPath, err)
	}
	if preserve {
		return applyTimes(task.DstPath, task)
	}
	return nil
}
