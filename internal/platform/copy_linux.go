//go:build linux

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// CopyFile tries copy_file_range, then sendfile, then read/write. The kernel
// paths are abandoned on cross-device or unsupported errors before any byte
// has been written.
func CopyFile(req Request) (Result, error) {
	preallocate(req.Dst, req.Offset, req.span())

	res, err := copyFileRange(req)
	if err == nil || !canFallBack(err, res) {
		return res, err
	}

	res, err = copySendfile(req)
	if err == nil || !canFallBack(err, res) {
		return res, err
	}

	return CopyReadWrite(req)
}

func canFallBack(err error, res Result) bool {
	if res.Written > 0 {
		return false
	}
	var pe *os.PathError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	switch {
	case errors.Is(err, unix.ENOSYS), errors.Is(err, unix.EXDEV),
		errors.Is(err, unix.EINVAL), errors.Is(err, unix.ENOTSUP),
		errors.Is(err, unix.EOPNOTSUPP):
		return true
	}
	return false
}

func copyFileRange(req Request) (Result, error) {
	src, err := os.Open(req.Src)
	if err != nil {
		return Result{Method: CopyFileRange}, err
	}
	defer src.Close()

	remaining := req.span()
	roff := req.Offset
	woff := req.Offset
	var written int64

	for remaining > 0 {
		//nolint:gosec // G115: fds are small non-negative integers
		n, err := unix.CopyFileRange(int(src.Fd()), &roff, int(req.Dst.Fd()), &woff, int(remaining), 0)
		if err != nil {
			return Result{Written: written, Method: CopyFileRange}, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		written += int64(n)
	}

	return Result{Written: written, Method: CopyFileRange}, nil
}

func copySendfile(req Request) (Result, error) {
	src, err := os.Open(req.Src)
	if err != nil {
		return Result{Method: Sendfile}, err
	}
	defer src.Close()

	if _, err := req.Dst.Seek(req.Offset, 0); err != nil {
		return Result{Method: Sendfile}, err
	}

	remaining := req.span()
	offset := req.Offset
	var written int64

	for remaining > 0 {
		//nolint:gosec // G115: fds are small non-negative integers
		n, err := unix.Sendfile(int(req.Dst.Fd()), int(src.Fd()), &offset, int(remaining))
		if err != nil {
			return Result{Written: written, Method: Sendfile}, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		written += int64(n)
	}

	return Result{Written: written, Method: Sendfile}, nil
}
