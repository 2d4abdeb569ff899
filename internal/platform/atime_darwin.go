package platform

import (
	"os"
	"syscall"
	"time"
)

func atime(st *syscall.Stat_t, _ os.FileInfo) time.Time {
	return time.Unix(st.Atimespec.Unix())
}
