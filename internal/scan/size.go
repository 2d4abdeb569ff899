package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bamsammich/offload/internal/engine"
	"github.com/bamsammich/offload/internal/platform"
	"github.com/bamsammich/offload/internal/stats"
)

// DirSize returns the total size of regular files under path. Symlinks are
// never followed, a hard-linked file counts once, and a directory reached
// twice through a bind mount is walked once. Any error while reading the
// tree fails the whole measurement.
func DirSize(ctx context.Context, path string, workers int) (int64, error) {
	return dirSize(ctx, path, workers, stats.NewCollector())
}

// sizer accumulates one DirSize walk.
type sizer struct {
	collector *stats.Collector
	fail      func(error)

	seenDirs  sync.Map // platform.FileID
	seenFiles sync.Map // platform.FileID

	mu    sync.Mutex
	total int64
	files int64
}

func dirSize(ctx context.Context, path string, workers int, collector *stats.Collector) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s: not a directory", path)
	}

	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		errOnce  sync.Once
		firstErr error
	)
	s := &sizer{
		collector: collector,
		fail: func(err error) {
			errOnce.Do(func() {
				firstErr = err
				cancel()
			})
		},
	}
	if st, ok := platform.Stat(info); ok {
		s.seenDirs.Store(st.ID, struct{}{})
	}

	engine.Walk(walkCtx, path, workers, s.visit)

	if firstErr != nil {
		return 0, firstErr
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	collector.AddFilesScanned(s.files)
	collector.AddBytesScanned(s.total)
	return s.total, nil
}

func (s *sizer) visit(ctx context.Context, dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.fail(err)
		return nil
	}

	var (
		subdirs []string
		bytes   int64
		files   int64
	)
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil
		}
		typ := entry.Type()
		if !typ.IsDir() && !typ.IsRegular() {
			// Symlinks, junctions and special files carry no data of their own.
			continue
		}
		info, err := entry.Info()
		if err != nil {
			s.fail(fmt.Errorf("stat %s: %w", filepath.Join(dir, entry.Name()), err))
			return nil
		}
		st, ok := platform.Stat(info)

		if typ.IsDir() {
			if ok {
				if _, loaded := s.seenDirs.LoadOrStore(st.ID, struct{}{}); loaded {
					continue
				}
			}
			subdirs = append(subdirs, filepath.Join(dir, entry.Name()))
			continue
		}

		if ok && st.Nlink > 1 {
			if _, loaded := s.seenFiles.LoadOrStore(st.ID, struct{}{}); loaded {
				continue
			}
		}
		bytes += info.Size()
		files++
	}

	s.mu.Lock()
	s.total += bytes
	s.files += files
	s.mu.Unlock()
	return subdirs
}
