//go:build unix

package platform

import (
	"os"
	"syscall"
)

func statInfo(info os.FileInfo) (StatInfo, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return StatInfo{Atime: info.ModTime()}, false
	}
	return StatInfo{
		ID:    FileID{Dev: uint64(st.Dev), Ino: uint64(st.Ino)},
		Nlink: uint64(st.Nlink),
		UID:   st.Uid,
		GID:   st.Gid,
		Atime: atime(st, info),
	}, true
}
