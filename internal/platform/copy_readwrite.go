package platform

import (
	"errors"
	"io"
	"os"
	"sync"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// CopyReadWrite copies the requested range with ReadAt/WriteAt through a
// pooled buffer. Destination offsets mirror source offsets.
func CopyReadWrite(req Request) (Result, error) {
	src, err := os.Open(req.Src)
	if err != nil {
		return Result{Method: ReadWrite}, err
	}
	defer src.Close()

	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)
	buf := *bufp

	offset := req.Offset
	remaining := req.span()
	var written int64

	for remaining > 0 {
		want := min(remaining, int64(bufferSize))

		n, rerr := src.ReadAt(buf[:want], offset)
		if n > 0 {
			if _, werr := req.Dst.WriteAt(buf[:n], offset); werr != nil {
				return Result{Written: written, Method: ReadWrite}, werr
			}
			offset += int64(n)
			remaining -= int64(n)
			written += int64(n)
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			return Result{Written: written, Method: ReadWrite}, rerr
		}
	}

	return Result{Written: written, Method: ReadWrite}, nil
}
