//go:build linux || darwin

package engine

import (
	"bytes"
	"os"

	"golang.org/x/sys/unix"
)

// copyXattrs copies every readable extended attribute of src onto dst.
// Attributes the destination filesystem rejects are dropped.
func copyXattrs(src string, dst *os.File) {
	sz, err := unix.Listxattr(src, nil)
	if err != nil || sz <= 0 {
		return
	}
	buf := make([]byte, sz)
	sz, err = unix.Listxattr(src, buf)
	if err != nil {
		return
	}

	raw := int(dst.Fd()) //nolint:gosec // fd fits in int
	for name := range bytes.SplitSeq(buf[:sz], []byte{0}) {
		if len(name) == 0 {
			continue
		}
		val, err := getXattr(src, string(name))
		if err != nil {
			continue
		}
		_ = unix.Fsetxattr(raw, string(name), val, 0)
	}
}

func getXattr(path, name string) ([]byte, error) {
	sz, err := unix.Getxattr(path, name, nil)
	if err != nil || sz == 0 {
		return nil, err
	}
	buf := make([]byte, sz)
	sz, err = unix.Getxattr(path, name, buf)
	if err != nil {
		return nil, err
	}
	return buf[:sz], nil
}
