// Package engine copies, verifies and removes directory trees. It is the
// data-moving half of a relocation: everything here operates on paths and
// knows nothing about backups or links.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bamsammich/offload/internal/event"
	"github.com/bamsammich/offload/internal/platform"
	"github.com/bamsammich/offload/internal/stats"
	"golang.org/x/time/rate"
)

// ErrUnsupported reports a source entry that cannot be copied faithfully,
// such as a device node, socket or named pipe.
var ErrUnsupported = errors.New("unsupported file type")

// Config describes a tree copy.
type Config struct {
	Src      string // existing directory
	Dst      string // must not exist; created by Run
	Workers  int
	Preserve bool  // owner, times and xattrs in addition to permissions
	BWLimit  int64 // bytes per second, 0 for unlimited
	Events   chan<- event.Event
	Stats    *stats.Collector
}

// Result is the outcome of a tree copy.
type Result struct {
	Stats stats.Snapshot
	Err   error
}

// Run copies the tree at cfg.Src to cfg.Dst, blocking until complete. It
// stops at the first error. A failed or cancelled Run may leave a partial
// tree at cfg.Dst; removing it is the caller's job.
func Run(ctx context.Context, cfg Config) Result {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers()
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	result := func(err error) Result {
		return Result{Stats: cfg.Stats.Snapshot(), Err: err}
	}

	info, err := os.Lstat(cfg.Src)
	if err != nil {
		return result(fmt.Errorf("source: %w", err))
	}
	if !info.IsDir() {
		return result(fmt.Errorf("source %s is not a directory", cfg.Src))
	}
	if err := os.Mkdir(cfg.Dst, info.Mode().Perm()|0o700); err != nil {
		return result(fmt.Errorf("create destination: %w", err))
	}

	event.Send(cfg.Events, event.Event{Type: event.CopyStarted, Path: cfg.Dst})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	fe := &firstError{cancel: cancel}

	c := &treeCopier{
		cfg:   cfg,
		tasks: make(chan FileTask, cfg.Workers*4),
		fail:  fe.set,
		dirs:  []FileTask{newTask(cfg.Src, cfg.Dst, info, Dir)},
	}

	var limiter *rate.Limiter
	if cfg.BWLimit > 0 {
		limiter = NewBWLimiter(cfg.BWLimit)
	}
	pool := newWorkerPool(workerConfig{
		workers:  cfg.Workers,
		preserve: cfg.Preserve,
		limiter:  limiter,
		stats:    cfg.Stats,
		events:   cfg.Events,
	})

	go func() {
		defer close(c.tasks)
		Walk(runCtx, cfg.Src, cfg.Workers, c.visit)
	}()
	pool.run(runCtx, c.tasks, fe.set)
	// Drain whatever the walker queued after a failure so it can exit.
	for range c.tasks { //nolint:revive // drain only
	}

	if err := fe.get(); err != nil {
		return result(err)
	}
	if err := ctx.Err(); err != nil {
		return result(err)
	}

	// Hardlinks need their first path copied; directories need their
	// children written before a read-only mode goes back on.
	if len(c.hardlinks) > 0 {
		links := make(chan FileTask, len(c.hardlinks))
		for _, t := range c.hardlinks {
			links <- t
		}
		close(links)
		pool.run(runCtx, links, fe.set)
		if err := fe.get(); err != nil {
			return result(err)
		}
	}
	if err := c.finishDirs(); err != nil {
		return result(err)
	}
	return result(nil)
}

// treeCopier turns a source walk into copy tasks. Directories are created
// by the walker itself so a file task never races its parent.
type treeCopier struct {
	cfg   Config
	tasks chan FileTask
	fail  func(error)

	seen sync.Map // platform.FileID -> destination path of the first link

	mu        sync.Mutex
	dirs      []FileTask
	hardlinks []FileTask
}

func (c *treeCopier) visit(ctx context.Context, dir string) []string {
	rel, err := filepath.Rel(c.cfg.Src, dir)
	if err != nil {
		c.fail(fmt.Errorf("rel path for %s: %w", dir, err))
		return nil
	}
	dstDir := filepath.Join(c.cfg.Dst, rel)

	entries, err := os.ReadDir(dir)
	if err != nil {
		c.fail(fmt.Errorf("readdir %s: %w", dir, err))
		return nil
	}

	var subdirs []string
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil
		}
		src := filepath.Join(dir, entry.Name())
		dst := filepath.Join(dstDir, entry.Name())

		info, err := os.Lstat(src)
		if err != nil {
			c.fail(fmt.Errorf("lstat %s: %w", src, err))
			return nil
		}

		task, descend, err := c.plan(src, dst, info)
		if err != nil {
			c.fail(err)
			return nil
		}
		if descend {
			subdirs = append(subdirs, src)
		}
		if task == nil {
			continue
		}
		select {
		case c.tasks <- *task:
		case <-ctx.Done():
			return nil
		}
	}
	return subdirs
}

// plan classifies one entry. Directories are created immediately and
// returned for descent; hardlinks after the first are held back; everything
// else becomes a task for the pool.
func (c *treeCopier) plan(src, dst string, info os.FileInfo) (*FileTask, bool, error) {
	mode := info.Mode()
	switch {
	case mode.IsDir():
		if err := os.Mkdir(dst, mode.Perm()|0o700); err != nil {
			return nil, false, fmt.Errorf("mkdir %s: %w", dst, err)
		}
		c.mu.Lock()
		c.dirs = append(c.dirs, newTask(src, dst, info, Dir))
		c.mu.Unlock()
		c.cfg.Stats.AddDirsCreated(1)
		event.Send(c.cfg.Events, event.Event{Type: event.DirCreated, Path: dst})
		return nil, true, nil

	case mode&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return nil, false, fmt.Errorf("readlink %s: %w", src, err)
		}
		t := newTask(src, dst, info, Symlink)
		t.LinkTarget = target
		return &t, false, nil

	case mode.IsRegular():
		t := newTask(src, dst, info, Regular)
		if st, ok := platform.Stat(info); ok && st.Nlink > 1 {
			if first, loaded := c.seen.LoadOrStore(st.ID, dst); loaded {
				t.Type = Hardlink
				t.LinkTarget = first.(string)
				c.mu.Lock()
				c.hardlinks = append(c.hardlinks, t)
				c.mu.Unlock()
				return nil, false, nil
			}
		}
		c.cfg.Stats.AddTotals(1, t.Size)
		if t.Size > 0 {
			segs, err := detectSegments(src, t.Size)
			if err != nil {
				return nil, false, fmt.Errorf("detect sparse %s: %w", src, err)
			}
			t.Segments = segs
		}
		return &t, false, nil

	default:
		return nil, false, fmt.Errorf("%s: %w (%v)", src, ErrUnsupported, mode.Type())
	}
}

// finishDirs restores directory modes deepest first.
func (c *treeCopier) finishDirs() error {
	sort.Slice(c.dirs, func(i, j int) bool {
		return strings.Count(c.dirs[i].DstPath, string(filepath.Separator)) >
			strings.Count(c.dirs[j].DstPath, string(filepath.Separator))
	})
	for _, d := range c.dirs {
		if err := applyDirMetadata(d, c.cfg.Preserve); err != nil {
			return err
		}
	}
	return nil
}

func detectSegments(path string, size int64) ([]Segment, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return DetectSparseSegments(fd, size)
}

// firstError keeps the first failure and cancels the shared context.
type firstError struct {
	mu     sync.Mutex
	err    error
	cancel context.CancelFunc
}

func (f *firstError) set(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		f.err = err
		f.cancel()
	}
}

func (f *firstError) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
