//go:build !linux

package platform

// CopyFile uses positional read/write on platforms without a kernel copy path.
func CopyFile(req Request) (Result, error) {
	preallocate(req.Dst, req.Offset, req.span())
	return CopyReadWrite(req)
}
