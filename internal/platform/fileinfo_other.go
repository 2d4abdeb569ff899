//go:build !unix

package platform

import "os"

func statInfo(info os.FileInfo) (StatInfo, bool) {
	return StatInfo{Atime: info.ModTime()}, false
}
