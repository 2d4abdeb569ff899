// Package scan finds large application-data folders. It sizes every
// immediate child directory of a set of roots and ranks the ones at or
// above a threshold.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bamsammich/offload/internal/engine"
	"github.com/bamsammich/offload/internal/event"
	"github.com/bamsammich/offload/internal/filter"
	"github.com/bamsammich/offload/internal/stats"
)

// Candidate is a folder eligible for relocation.
type Candidate struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Skip records a folder that could not be sized. Skipped folders are left
// out of the candidates rather than reported as empty.
type Skip struct {
	Path string
	Err  error
}

func (s Skip) Error() string { return fmt.Sprintf("skipped %s: %v", s.Path, s.Err) }

func (s Skip) Unwrap() error { return s.Err }

// Config controls a scan.
type Config struct {
	Roots     []string
	Threshold int64 // minimum size in bytes, inclusive; negative values act as 0
	Workers   int   // per-folder walk parallelism
	Filter    *filter.Chain
	Stats     *stats.Collector
	Events    chan<- event.Event
}

// Result is the ranked outcome of a scan.
type Result struct {
	Candidates []Candidate // largest first, ties by path
	Skipped    []Skip
	Err        error // set only when ctx ended the scan early
}

// TotalSize sums the candidate sizes.
func (r Result) TotalSize() int64 {
	var n int64
	for _, c := range r.Candidates {
		n += c.Size
	}
	return n
}

// Scan sizes every immediate child directory of cfg.Roots and returns the
// ones whose size is at least cfg.Threshold. Children that are links are
// never candidates. A folder that fails to size is skipped and the scan
// moves on; only cancellation of ctx stops it early.
func Scan(ctx context.Context, cfg Config) Result {
	if cfg.Workers <= 0 {
		cfg.Workers = engine.DefaultWorkers()
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	event.Send(cfg.Events, event.Event{Type: event.ScanStarted, Total: int64(len(cfg.Roots))})

	var res Result
	for _, root := range cfg.Roots {
		children, err := listChildren(root, cfg.Filter)
		if err != nil {
			res.Skipped = append(res.Skipped, Skip{Path: root, Err: err})
			slog.Debug("scan root skipped", "root", root, "error", err)
			event.Send(cfg.Events, event.Event{Type: event.RootSkipped, Path: root, Error: err})
			continue
		}

		for _, child := range children {
			if err := ctx.Err(); err != nil {
				res.Err = err
				return finish(cfg, res)
			}
			size, err := dirSize(ctx, child, cfg.Workers, cfg.Stats)
			if err != nil {
				if ctx.Err() != nil {
					res.Err = ctx.Err()
					return finish(cfg, res)
				}
				res.Skipped = append(res.Skipped, Skip{Path: child, Err: err})
				cfg.Stats.AddFoldersSkipped(1)
				slog.Debug("scan skip", "path", child, "error", err)
				event.Send(cfg.Events, event.Event{Type: event.FolderSkipped, Path: child, Error: err})
				continue
			}

			cfg.Stats.AddFoldersSized(1)
			event.Send(cfg.Events, event.Event{Type: event.FolderSized, Path: child, Size: size})
			if size >= cfg.Threshold {
				res.Candidates = append(res.Candidates, Candidate{Path: child, Size: size})
			}
		}
	}
	return finish(cfg, res)
}

// Start runs Scan in the background. The channel yields exactly one Result
// and is then closed.
func Start(ctx context.Context, cfg Config) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- Scan(ctx, cfg)
	}()
	return out
}

func finish(cfg Config, res Result) Result {
	sort.Slice(res.Candidates, func(i, j int) bool {
		a, b := res.Candidates[i], res.Candidates[j]
		if a.Size != b.Size {
			return a.Size > b.Size
		}
		return a.Path < b.Path
	})
	event.Send(cfg.Events, event.Event{
		Type:      event.ScanComplete,
		Total:     int64(len(res.Candidates)),
		TotalSize: res.TotalSize(),
		Error:     res.Err,
	})
	return res
}

// listChildren returns the absolute paths of root's immediate child
// directories, excluding links and names the filter rejects.
func listChildren(root string, f *filter.Chain) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		// DirEntry.Type comes from Lstat, so a link to a directory is not IsDir.
		if !e.Type().IsDir() {
			continue
		}
		if !f.Match(e.Name(), true) {
			continue
		}
		out = append(out, filepath.Join(abs, e.Name()))
	}
	return out, nil
}
