//go:build linux || darwin

package engine

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// Segment describes a contiguous region of a file.
type Segment struct {
	Offset int64
	Length int64
	IsData bool
}

// DetectSparseSegments maps the data and hole regions of fd with
// SEEK_DATA/SEEK_HOLE. A filesystem without hole reporting yields a single
// data segment covering the whole file. An empty file yields nil.
func DetectSparseSegments(fd *os.File, size int64) ([]Segment, error) {
	if size == 0 {
		return nil, nil
	}

	raw := int(fd.Fd()) //nolint:gosec // fd fits in int
	var segs []Segment
	off := int64(0)

	for off < size {
		data, err := unix.Seek(raw, off, unix.SEEK_DATA)
		switch {
		case errors.Is(err, unix.ENXIO):
			// Only a hole remains.
			return append(segs, Segment{Offset: off, Length: size - off}), nil
		case errors.Is(err, unix.EINVAL):
			return wholeFile(size), nil
		case err != nil:
			return nil, err
		}
		if data > off {
			segs = append(segs, Segment{Offset: off, Length: data - off})
		}

		hole, err := unix.Seek(raw, data, unix.SEEK_HOLE)
		switch {
		case errors.Is(err, unix.ENXIO):
			hole = size
		case errors.Is(err, unix.EINVAL):
			return wholeFile(size), nil
		case err != nil:
			return nil, err
		}
		hole = min(hole, size)

		segs = append(segs, Segment{Offset: data, Length: hole - data, IsData: true})
		off = hole
	}

	if len(segs) == 0 {
		return wholeFile(size), nil
	}
	return segs, nil
}

func wholeFile(size int64) []Segment {
	return []Segment{{Offset: 0, Length: size, IsData: true}}
}
