package platform

import (
	"os"
	"time"
)

// FileID identifies an inode on a device.
type FileID struct {
	Dev uint64
	Ino uint64
}

// StatInfo carries the ownership and identity fields os.FileInfo hides
// behind Sys().
type StatInfo struct {
	ID    FileID
	Nlink uint64
	UID   uint32
	GID   uint32
	Atime time.Time
}

// Stat extracts StatInfo from info. ok is false on platforms that do not
// expose inode numbers through Lstat; callers then treat every entry as
// distinct.
func Stat(info os.FileInfo) (StatInfo, bool) {
	return statInfo(info)
}
