package engine

import (
	"os"
	"time"

	"github.com/bamsammich/offload/internal/platform"
)

// FileType identifies the kind of filesystem entry.
type FileType int

const (
	Regular FileType = iota
	Dir
	Symlink
	Hardlink
)

var fileTypeNames = [...]string{
	Regular:  "file",
	Dir:      "dir",
	Symlink:  "symlink",
	Hardlink: "hardlink",
}

func (t FileType) String() string {
	if t >= 0 && int(t) < len(fileTypeNames) {
		return fileTypeNames[t]
	}
	return "unknown"
}

// FileTask describes a single entry of the tree being copied.
type FileTask struct {
	SrcPath    string
	DstPath    string
	LinkTarget string // symlink contents, or the destination path of the first hardlink
	ModTime    time.Time
	AccTime    time.Time
	Segments   []Segment // sparse layout; nil copies the whole file
	ID         platform.FileID
	Size       int64
	Mode       os.FileMode
	UID        uint32
	GID        uint32
	Type       FileType
}

func newTask(src, dst string, info os.FileInfo, typ FileType) FileTask {
	st, _ := platform.Stat(info)
	return FileTask{
		SrcPath: src,
		DstPath: dst,
		ModTime: info.ModTime(),
		AccTime: st.Atime,
		ID:      st.ID,
		Size:    info.Size(),
		Mode:    info.Mode(),
		UID:     st.UID,
		GID:     st.GID,
		Type:    typ,
	}
}
