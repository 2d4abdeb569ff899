package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bamsammich/offload/internal/event"
	"github.com/bamsammich/offload/internal/stats"
)

// ErrMismatch reports that a copied tree differs from its source.
var ErrMismatch = errors.New("copy does not match source")

// VerifyConfig controls a post-copy comparison of two trees.
type VerifyConfig struct {
	Src     string
	Dst     string
	Workers int
	Events  chan<- event.Event
	Stats   *stats.Collector
}

// VerifyResult holds the outcome of a verification pass.
type VerifyResult struct {
	Verified int64
	Failed   int64
	Errors   []VerifyError
}

// VerifyError records one entry that did not match.
type VerifyError struct {
	Path   string // relative to the roots
	Reason string
}

// VerifyTree walks Src and checks that Dst holds the same structure: every
// directory, the same symlink contents, and regular files with identical
// BLAKE3 digests. Entries present only in Dst are not reported. The error
// wraps ErrMismatch when anything differs, or carries the walk or context
// error that stopped the pass.
func VerifyTree(ctx context.Context, cfg VerifyConfig) (VerifyResult, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers()
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	event.Send(cfg.Events, event.Event{Type: event.VerifyStarted, Path: cfg.Src})

	var (
		mu     sync.Mutex
		result VerifyResult
	)
	fail := func(rel, reason string) {
		mu.Lock()
		result.Failed++
		result.Errors = append(result.Errors, VerifyError{Path: rel, Reason: reason})
		mu.Unlock()
		cfg.Stats.AddFilesVerifyFailed(1)
		event.Send(cfg.Events, event.Event{Type: event.VerifyFailed, Path: rel, Message: reason})
	}
	pass := func(rel string) {
		mu.Lock()
		result.Verified++
		mu.Unlock()
		cfg.Stats.AddFilesVerified(1)
		event.Send(cfg.Events, event.Event{Type: event.VerifyOK, Path: rel})
	}

	files := make(chan string, cfg.Workers*2)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range files {
				if ctx.Err() != nil {
					continue
				}
				if reason := compareContents(ctx, cfg.Src, cfg.Dst, rel); reason != "" {
					if ctx.Err() == nil {
						fail(rel, reason)
					}
					continue
				}
				pass(rel)
			}
		}()
	}

	walkErr := filepath.WalkDir(cfg.Src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		rel, err := filepath.Rel(cfg.Src, path)
		if err != nil {
			return err
		}
		if reason := compareEntry(d, path, filepath.Join(cfg.Dst, rel)); reason != "" {
			fail(rel, reason)
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			select {
			case files <- rel:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	close(files)
	wg.Wait()

	if walkErr != nil {
		return result, fmt.Errorf("verify %s: %w", cfg.Src, walkErr)
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if len(result.Errors) > 0 {
		sort.Slice(result.Errors, func(i, j int) bool { return result.Errors[i].Path < result.Errors[j].Path })
		first := result.Errors[0]
		if len(result.Errors) == 1 {
			return result, fmt.Errorf("%w: %s: %s", ErrMismatch, first.Path, first.Reason)
		}
		return result, fmt.Errorf("%w: %s: %s (and %d more)",
			ErrMismatch, first.Path, first.Reason, len(result.Errors)-1)
	}
	return result, nil
}

// compareEntry checks type, size and symlink contents. It returns an empty
// string when dst matches.
func compareEntry(d fs.DirEntry, src, dst string) string {
	dinfo, err := os.Lstat(dst)
	if err != nil {
		return "missing from copy"
	}
	styp := d.Type().Type()
	if styp != dinfo.Mode().Type() {
		return fmt.Sprintf("type %v, copy has %v", styp, dinfo.Mode().Type())
	}
	switch {
	case d.IsDir():
		return ""
	case styp&fs.ModeSymlink != 0:
		want, err := os.Readlink(src)
		if err != nil {
			return err.Error()
		}
		got, err := os.Readlink(dst)
		if err != nil {
			return err.Error()
		}
		if want != got {
			return fmt.Sprintf("symlink points to %q, copy points to %q", want, got)
		}
		return ""
	case styp.IsRegular():
		sinfo, err := d.Info()
		if err != nil {
			return err.Error()
		}
		if sinfo.Size() != dinfo.Size() {
			return fmt.Sprintf("size %d, copy has %d", sinfo.Size(), dinfo.Size())
		}
		return ""
	default:
		return fmt.Sprintf("unsupported file type %v", styp)
	}
}

func compareContents(ctx context.Context, srcRoot, dstRoot, rel string) string {
	want, err := HashFile(ctx, filepath.Join(srcRoot, rel))
	if err != nil {
		return err.Error()
	}
	got, err := HashFile(ctx, filepath.Join(dstRoot, rel))
	if err != nil {
		return err.Error()
	}
	if want != got {
		return fmt.Sprintf("blake3 %s, copy has %s", want[:16], got[:16])
	}
	return ""
}
