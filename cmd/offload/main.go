package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/bamsammich/offload/internal/config"
	"github.com/bamsammich/offload/internal/engine"
	"github.com/bamsammich/offload/internal/event"
	"github.com/bamsammich/offload/internal/relocate"
	"github.com/bamsammich/offload/internal/stats"
	"github.com/bamsammich/offload/internal/ui"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// app carries the global flags and streams shared by every subcommand.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// isTTY reports whether the stream with this fd is an interactive
	// terminal; replaced in tests.
	isTTY       func(fd uintptr) bool
	interactive bool // stdin is a terminal and may answer prompts

	verbose bool
	quiet   bool
	logFile string

	cfg     config.Config
	closers []io.Closer
}

func newApp() *app {
	return &app{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		isTTY:       ui.IsTTY,
		interactive: ui.IsTerminal(os.Stdin.Fd()),
	}
}

func run() int {
	// Interrupted copies leave staging trees and tmp files behind; remove
	// whatever the engine still has registered.
	defer engine.CleanupTemps()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp()
	defer a.close()

	err := newRootCmd(a).ExecuteContext(ctx)
	return a.exitCode(err)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "offload",
		Short: "Find large application folders and move them to another volume behind a link",
		Long: `offload finds large application-data folders and relocates them to another
volume. The original path is replaced by a directory link to the new
location, so programs keep working unmodified. Every move is transactional:
on any failure the original directory is restored.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetVersionTemplate("offload {{.Version}}\n")

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress all output except errors")
	root.PersistentFlags().StringVar(&a.logFile, "log", "", "write structured JSON log to FILE")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(newScanCmd(a))
	root.AddCommand(newMoveCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newDocsCmd())
	return root
}

// setup configures logging and loads the optional config file.
func (a *app) setup() error {
	logLevel := slog.LevelInfo
	switch {
	case a.verbose:
		logLevel = slog.LevelDebug
	case a.quiet:
		logLevel = slog.LevelWarn
	}
	textHandler := slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: logLevel})
	var logHandler slog.Handler = textHandler
	if a.logFile != "" {
		lf, err := os.Create(a.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, lf)
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(logHandler))

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config", "error", err)
	}
	a.cfg = cfg
	ui.ApplyTheme(cfg.Theme)
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		c.Close() //nolint:errcheck,gosec // best effort on exit
	}
	a.closers = nil
}

// exitCode maps a command error to the process exit status:
// 0 success, 1 rolled back or invalid input, 3 unrecoverable, 2 anything else.
func (a *app) exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	if errors.Is(err, relocate.ErrInvalidInput) {
		return 1
	}
	return 2
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// presenterFor builds the progress presenter for one command run. Progress
// goes to stderr; stdout is reserved for results.
//
//nolint:ireturn // factory returns interface by design
func (a *app) presenterFor(collector *stats.Collector) ui.Presenter {
	return ui.NewPresenter(ui.Config{
		Writer:    a.stderr,
		ErrWriter: a.stderr,
		Stats:     collector,
		IsTTY:     a.isTTY(os.Stderr.Fd()),
		Quiet:     a.quiet,
		Verbose:   a.verbose,
	})
}

// withProgress runs work with an event channel drained by presenter and
// prints the presenter summary once work returns. When --log is set, every
// event is also written to the log at debug level.
func (a *app) withProgress(presenter ui.Presenter, work func(events chan<- event.Event)) {
	events := make(chan event.Event, 256)

	presenterEvents := (<-chan event.Event)(events)
	if a.logFile != "" {
		teed := make(chan event.Event, 256)
		go func() {
			defer close(teed)
			for ev := range events {
				attrs := []slog.Attr{
					slog.String("type", ev.Type.String()),
					slog.String("path", ev.Path),
				}
				if ev.State != "" {
					attrs = append(attrs, slog.String("state", ev.State))
				}
				if ev.Size != 0 {
					attrs = append(attrs, slog.Int64("size", ev.Size))
				}
				if ev.Message != "" {
					attrs = append(attrs, slog.String("message", ev.Message))
				}
				if ev.Error != nil {
					attrs = append(attrs, slog.String("error", ev.Error.Error()))
				}
				slog.LogAttrs(context.Background(), slog.LevelDebug, "offload.event", attrs...)
				teed <- ev
			}
		}()
		presenterEvents = teed
	}

	var (
		presenterErr error
		wg           sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	work(events)
	close(events)
	wg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(a.stderr, "presenter: %v\n", presenterErr)
	}

	if !a.quiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(a.stderr, summary)
		}
	}
}
