// Package platform copies file data with the fastest mechanism the host
// kernel offers, falling back to positional read/write.
package platform

import "os"

// Method identifies which syscall or strategy moved the bytes.
type Method int

const (
	ReadWrite     Method = iota
	CopyFileRange        // Linux copy_file_range(2)
	Sendfile             // Linux sendfile(2)
)

func (m Method) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case CopyFileRange:
		return "copy_file_range"
	case Sendfile:
		return "sendfile"
	default:
		return "unknown"
	}
}

// Request describes a byte range to copy from a source path into an open
// destination file. Length 0 means "to the end of the source".
type Request struct {
	Dst    *os.File
	Src    string
	Offset int64
	Length int64
	Size   int64
}

// Result reports how much was written and how.
type Result struct {
	Written int64
	Method  Method
}

// span returns the effective byte count to copy.
func (r Request) span() int64 {
	if r.Length > 0 {
		return r.Length
	}
	return r.Size - r.Offset
}
