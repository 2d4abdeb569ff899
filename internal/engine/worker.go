package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bamsammich/offload/internal/event"
	"github.com/bamsammich/offload/internal/platform"
	"github.com/bamsammich/offload/internal/stats"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// copySlice bounds how much a single kernel copy call moves before the
// worker checks for cancellation again.
const copySlice = 64 << 20

// workerConfig controls the copy workers.
type workerConfig struct {
	workers  int
	preserve bool
	limiter  *rate.Limiter // nil copies at full speed
	stats    *stats.Collector
	events   chan<- event.Event
}

// workerPool copies regular files and recreates symlinks.
type workerPool struct {
	cfg workerConfig
}

func newWorkerPool(cfg workerConfig) *workerPool {
	if cfg.workers <= 0 {
		cfg.workers = DefaultWorkers()
	}
	return &workerPool{cfg: cfg}
}

// run consumes tasks until the channel closes or ctx is cancelled. The
// first failure goes to fail, which is expected to cancel ctx.
func (wp *workerPool) run(ctx context.Context, tasks <-chan FileTask, fail func(error)) {
	var wg sync.WaitGroup
	for range wp.cfg.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				if ctx.Err() != nil {
					return
				}
				if err := wp.process(ctx, task); err != nil {
					wp.cfg.stats.AddFilesFailed(1)
					event.Send(wp.cfg.events, event.Event{
						Type:  event.FileFailed,
						Path:  task.SrcPath,
						Error: err,
					})
					fail(err)
				}
			}
		}()
	}
	wg.Wait()
}

func (wp *workerPool) process(ctx context.Context, task FileTask) error {
	switch task.Type {
	case Regular:
		return wp.copyRegularFile(ctx, task)
	case Symlink:
		return wp.createSymlink(task)
	case Hardlink:
		return wp.createHardlink(task)
	default:
		return fmt.Errorf("unexpected %s task for %s", task.Type, task.SrcPath)
	}
}

func (wp *workerPool) createSymlink(task FileTask) error {
	if err := os.Symlink(task.LinkTarget, task.DstPath); err != nil {
		return fmt.Errorf("symlink %s -> %s: %w", task.DstPath, task.LinkTarget, err)
	}
	if wp.cfg.preserve {
		_ = os.Lchown(task.DstPath, int(task.UID), int(task.GID))
	}
	wp.cfg.stats.AddLinksCopied(1)
	event.Send(wp.cfg.events, event.Event{Type: event.LinkCopied, Path: task.DstPath})
	return nil
}

// createHardlink links task.DstPath to the copy of the first path seen for
// the same inode, which must already be in place.
func (wp *workerPool) createHardlink(task FileTask) error {
	if err := os.Link(task.LinkTarget, task.DstPath); err != nil {
		return fmt.Errorf("hardlink %s -> %s: %w", task.DstPath, task.LinkTarget, err)
	}
	wp.cfg.stats.AddHardlinksCreated(1)
	event.Send(wp.cfg.events, event.Event{Type: event.HardlinkCreated, Path: task.DstPath})
	return nil
}

// copyRegularFile writes into a hidden temporary beside the destination and
// renames it into place, so a destination name never holds partial data.
func (wp *workerPool) copyRegularFile(ctx context.Context, task FileTask) error {
	dir := filepath.Dir(task.DstPath)
	tmpPath := filepath.Join(dir,
		fmt.Sprintf(".%s.%s.offload-tmp", filepath.Base(task.DstPath), uuid.New().String()[:8]))

	RegisterTemp(tmpPath)
	defer func() {
		ReleaseTemp(tmpPath)
		_ = os.Remove(tmpPath) // no-op after a successful rename
	}()

	fd, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, task.Mode.Perm()|0o600)
	if err != nil {
		return fmt.Errorf("create tmp %s: %w", tmpPath, err)
	}

	written, err := wp.copyData(ctx, task, fd)
	if err != nil {
		fd.Close()
		return fmt.Errorf("copy %s: %w", task.SrcPath, err)
	}

	if wp.cfg.preserve {
		if err := applyFileMetadata(task, fd); err != nil {
			fd.Close()
			return err
		}
	} else if err := fd.Chmod(task.Mode.Perm()); err != nil {
		fd.Close()
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}

	if err := fd.Close(); err != nil {
		return fmt.Errorf("close tmp %s: %w", tmpPath, err)
	}
	if wp.cfg.preserve {
		if err := applyTimes(tmpPath, task); err != nil {
			return err
		}
	}

	if err := os.Rename(tmpPath, task.DstPath); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", tmpPath, task.DstPath, err)
	}

	wp.cfg.stats.AddFilesCopied(1)
	event.Send(wp.cfg.events, event.Event{Type: event.FileCopied, Path: task.DstPath, Size: written})
	return nil
}

// copyData moves the file contents. Holes in a sparse source stay holes.
func (wp *workerPool) copyData(ctx context.Context, task FileTask, dst *os.File) (int64, error) {
	if task.Size == 0 {
		return 0, nil
	}
	segs := task.Segments
	if len(segs) == 0 {
		segs = []Segment{{Offset: 0, Length: task.Size, IsData: true}}
	} else if err := dst.Truncate(task.Size); err != nil {
		return 0, fmt.Errorf("truncate for sparse: %w", err)
	}

	var total int64
	for _, seg := range segs {
		if !seg.IsData {
			continue
		}
		n, err := wp.copyRange(ctx, task, dst, seg.Offset, seg.Length)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (wp *workerPool) copyRange(ctx context.Context, task FileTask, dst *os.File, off, length int64) (int64, error) {
	if wp.cfg.limiter != nil {
		return wp.copyLimited(ctx, task.SrcPath, dst, off, length)
	}

	var total int64
	for total < length {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n := min(length-total, copySlice)
		res, err := platform.CopyFile(platform.Request{
			Dst:    dst,
			Src:    task.SrcPath,
			Offset: off + total,
			Length: n,
			Size:   task.Size,
		})
		total += res.Written
		wp.cfg.stats.AddBytesCopied(res.Written)
		if err != nil {
			return total, err
		}
		if res.Written == 0 {
			return total, io.ErrUnexpectedEOF
		}
	}
	return total, nil
}

// copyLimited streams through the shared bandwidth limiter. Kernel
// offload paths bypass userspace, so throttled copies always read and
// write here.
func (wp *workerPool) copyLimited(ctx context.Context, src string, dst *os.File, off, length int64) (int64, error) {
	sf, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer sf.Close()

	r := newRateLimitedReader(ctx, io.NewSectionReader(sf, off, length), wp.cfg.limiter)
	w := &countingWriter{w: io.NewOffsetWriter(dst, off), stats: wp.cfg.stats}
	n, err := io.CopyBuffer(w, r, make([]byte, 256<<10))
	if err == nil && n < length {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

// countingWriter feeds bytes written into the collector as they land, so
// throttled copies report progress smoothly.
type countingWriter struct {
	w     io.Writer
	stats *stats.Collector
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.stats.AddBytesCopied(int64(n))
	return n, err
}
