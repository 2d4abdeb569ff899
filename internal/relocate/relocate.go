// Package relocate moves a directory to another location and leaves a link
// at the original path. Execute runs the move as a fixed sequence
// (copy, back up, link, verify, clean up) and rolls back on any failure so
// the original data is always held by exactly one of the source path or
// the backup path.
package relocate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bamsammich/offload/internal/engine"
	"github.com/bamsammich/offload/internal/event"
	"github.com/bamsammich/offload/internal/link"
	"github.com/bamsammich/offload/internal/stats"
)

// Config controls how Execute copies data.
type Config struct {
	Workers          int
	Verify           bool  // BLAKE3-compare every file after copying
	PreserveMetadata bool  // owner, times and xattrs in addition to permissions
	BWLimit          int64 // bytes per second, 0 for unlimited
	Events           chan<- event.Event
	Stats            *stats.Collector
}

// Result is the terminal report of Execute.
type Result struct {
	Plan             Plan
	Outcome          Outcome
	FinalSourceState SourceState
	LinkTarget       string // destination the source link points to, on Success
	FailedState      State  // Idle unless a step failed
	Err              error
	Warnings         []string
	Stats            stats.Snapshot
}

// Engine executes relocation plans.
type Engine struct {
	cfg Config
	ops ops
}

// ops are the filesystem steps Execute is built from.
type ops struct {
	copyTree   func(ctx context.Context, src, dst string) error
	rename     func(oldpath, newpath string) error
	createLink func(path, target string) error
	checkLink  func(path, target string) error
	removeLink func(path string) error
	removeTree func(path string) error
}

// New returns an Engine that copies with cfg.
func New(cfg Config) *Engine {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	e := &Engine{cfg: cfg}
	e.ops = ops{
		copyTree:   e.copyTree,
		rename:     os.Rename,
		createLink: link.Create,
		checkLink:  link.Check,
		removeLink: link.Remove,
		removeTree: engine.RemoveTree,
	}
	return e
}

// Execute carries out p. It always returns in a terminal state: Success,
// RolledBack, FailedUnrecoverable, or Rejected when preconditions no longer
// hold or the plan overlaps a relocation already running. ctx is honoured
// only while copying; cancelling it then takes the same path as a copy
// failure.
func (e *Engine) Execute(ctx context.Context, p Plan) (res Result) {
	r := &run{e: e, plan: p, res: Result{Plan: p}}
	defer func() {
		res.Stats = e.cfg.Stats.Snapshot()
		res.FinalSourceState = sourceState(p.Source)
		event.Send(e.cfg.Events, event.Event{
			Type:    event.RelocationDone,
			Path:    p.Source,
			Message: res.Outcome.String(),
			Error:   res.Err,
		})
	}()

	release, err := active.acquire(p)
	if err != nil {
		return r.reject(err)
	}
	defer release()

	if p.Backup == "" {
		return r.reject(invalid("plan has no backup path"))
	}
	if err := p.Validate(); err != nil {
		return r.reject(err)
	}

	r.enter(Copying)
	if err := e.ops.copyTree(ctx, p.Source, p.Destination); err != nil {
		return r.abandonCopy(&StepError{State: Copying, Op: "copy", Path: p.Source, Err: err})
	}

	r.enter(BackingUp)
	if err := e.ops.rename(p.Source, p.Backup); err != nil {
		return r.rollback(&StepError{State: BackingUp, Op: "rename", Path: p.Source, Err: err}, false)
	}

	r.enter(Linking)
	if err := e.ops.createLink(p.Source, p.Destination); err != nil {
		return r.rollback(&StepError{State: Linking, Op: "create link", Path: p.Source, Err: err}, true)
	}

	r.enter(Verifying)
	if err := e.ops.checkLink(p.Source, p.Destination); err != nil {
		return r.rollback(&StepError{State: Verifying, Op: "verify link", Path: p.Source, Err: err}, true)
	}

	r.enter(CleaningUp)
	if err := e.ops.removeTree(p.Backup); err != nil {
		r.warn("backup %s could not be removed and can be deleted by hand: %v", p.Backup, err)
	}

	r.enter(Done)
	r.res.Outcome = Success
	r.res.LinkTarget = p.Destination
	slog.Info("relocated", "source", p.Source, "destination", p.Destination)
	return r.res
}

// copyTree copies src into a hidden staging directory beside dst,
// optionally verifies it, and renames it to dst once complete.
func (e *Engine) copyTree(ctx context.Context, src, dst string) error {
	staging, err := uniqueSibling(filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)), stagingInfix)
	if err != nil {
		return err
	}
	engine.RegisterTemp(staging)
	defer engine.ReleaseTemp(staging)

	fail := func(err error) error {
		if rerr := engine.RemoveTree(staging); rerr != nil {
			return errors.Join(err, fmt.Errorf("remove staging %s: %w", staging, rerr))
		}
		return err
	}

	res := engine.Run(ctx, engine.Config{
		Src:      src,
		Dst:      staging,
		Workers:  e.cfg.Workers,
		Preserve: e.cfg.PreserveMetadata,
		BWLimit:  e.cfg.BWLimit,
		Events:   e.cfg.Events,
		Stats:    e.cfg.Stats,
	})
	if res.Err != nil {
		return fail(res.Err)
	}

	if e.cfg.Verify {
		if _, err := engine.VerifyTree(ctx, engine.VerifyConfig{
			Src:     src,
			Dst:     staging,
			Workers: e.cfg.Workers,
			Events:  e.cfg.Events,
			Stats:   e.cfg.Stats,
		}); err != nil {
			return fail(err)
		}
	}

	if err := os.Rename(staging, dst); err != nil {
		return fail(err)
	}
	return nil
}

// run carries the state of one Execute call.
type run struct {
	e    *Engine
	plan Plan
	res  Result
}

func (r *run) enter(s State) {
	slog.Debug("relocation state",
		"state", s.String(),
		"source", r.plan.Source,
		"destination", r.plan.Destination,
		"backup", r.plan.Backup)
	event.Send(r.e.cfg.Events, event.Event{Type: event.StateEntered, Path: r.plan.Source, State: s.String()})
}

func (r *run) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Warn(msg, "source", r.plan.Source)
	r.res.Warnings = append(r.res.Warnings, msg)
}

func (r *run) step(msg string) {
	slog.Warn("rollback", "step", msg, "source", r.plan.Source)
	event.Send(r.e.cfg.Events, event.Event{
		Type:    event.RollbackStep,
		Path:    r.plan.Source,
		State:   RollingBack.String(),
		Message: msg,
	})
}

func (r *run) reject(err error) Result {
	slog.Debug("relocation rejected", "source", r.plan.Source, "error", err)
	r.res.Outcome = Rejected
	r.res.Err = err
	return r.res
}

// abandonCopy handles a Copying failure. The source was never renamed and
// copyTree already removed its staging directory. Whatever is at the
// destination now was not written by this run and is left alone.
func (r *run) abandonCopy(err *StepError) Result {
	r.res.FailedState = Copying
	r.res.Err = err
	r.res.Outcome = RolledBack
	slog.Warn("copy failed, source untouched", "source", r.plan.Source, "error", err)
	return r.res
}

// rollback restores the pre-operation layout after a failure in
// BackingUp, Linking or Verifying. What to undo is derived from what is on
// disk now. backedUp says whether the rename to the backup path had
// succeeded.
func (r *run) rollback(cause *StepError, backedUp bool) Result {
	p := r.plan
	r.res.FailedState = cause.State
	r.enter(RollingBack)

	srcState, _ := link.Inspect(p.Source)
	bakState, _ := link.Inspect(p.Backup)

	switch {
	case !backedUp && srcState == link.Directory:
		// The rename never happened; the original is still in place. A
		// directory at the backup path is not ours and stays untouched.

	case bakState == link.Directory:
		if srcState == link.Link {
			r.step("remove link " + p.Source)
			if err := r.e.ops.removeLink(p.Source); err != nil {
				return r.unrecoverable(cause, fmt.Errorf("remove link %s: %w", p.Source, err))
			}
		} else if srcState != link.Missing {
			return r.unrecoverable(cause, fmt.Errorf("%s is occupied by an unexpected %s", p.Source, srcState))
		}
		r.step("restore " + p.Backup + " to " + p.Source)
		if err := r.e.ops.rename(p.Backup, p.Source); err != nil {
			return r.unrecoverable(cause, fmt.Errorf("restore %s: %w", p.Backup, err))
		}

	case backedUp:
		return r.unrecoverable(cause, fmt.Errorf("backup %s is %s", p.Backup, bakState))

	default:
		return r.unrecoverable(cause, fmt.Errorf("source %s is %s and backup %s is %s",
			p.Source, srcState, p.Backup, bakState))
	}

	r.step("remove copy " + p.Destination)
	if err := r.e.ops.removeTree(p.Destination); err != nil {
		r.warn("abandoned copy at %s could not be removed: %v", p.Destination, err)
	}

	r.enter(Done)
	r.res.Outcome = RolledBack
	r.res.Err = cause
	slog.Warn("relocation rolled back", "source", p.Source, "state", cause.State.String(), "error", cause.Err)
	return r.res
}

// unrecoverable leaves every path as it is. The destination copy is kept
// because it may be the only complete copy left.
func (r *run) unrecoverable(cause *StepError, why error) Result {
	r.res.Outcome = FailedUnrecoverable
	r.res.Err = errors.Join(cause, fmt.Errorf("%w: %w", ErrUnrecoverable, why))
	slog.Error("relocation rollback failed",
		"source", r.plan.Source,
		"backup", r.plan.Backup,
		"destination", r.plan.Destination,
		"error", r.res.Err)
	return r.res
}

func sourceState(path string) SourceState {
	st, err := link.Inspect(path)
	if err != nil {
		return SourceOther
	}
	switch st {
	case link.Missing:
		return SourceMissing
	case link.Directory:
		return SourceOriginal
	case link.Link:
		return SourceLink
	default:
		return SourceOther
	}
}
