package ui

import (
	"io"

	"github.com/bamsammich/offload/internal/event"
	"github.com/bamsammich/offload/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan event.Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Stats     *stats.Collector
	Root      string // stripped from displayed copy paths
	IsTTY     bool
	Quiet     bool
	Verbose   bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	if cfg.Quiet {
		return quietPresenter{}
	}
	if !cfg.IsTTY {
		return &plainPresenter{
			w:       cfg.Writer,
			errW:    cfg.ErrWriter,
			stats:   cfg.Stats,
			root:    cfg.Root,
			verbose: cfg.Verbose,
		}
	}
	return &livePresenter{
		w:       cfg.ErrWriter, // the status line lives on stderr (the TTY)
		stats:   cfg.Stats,
		root:    cfg.Root,
		verbose: cfg.Verbose,
	}
}

// errText renders an event error, falling back to its message.
func errText(ev event.Event) string {
	switch {
	case ev.Error != nil:
		return ev.Error.Error()
	case ev.Message != "":
		return ev.Message
	default:
		return "error"
	}
}
