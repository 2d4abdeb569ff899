package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/offload/internal/event"
	"github.com/bamsammich/offload/internal/stats"
)

// plainPresenter writes one line per relocation step to stderr and, when
// verbose, one line per sized folder or copied file to stdout. While a copy
// runs it prints a progress line every five seconds.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   *stats.Collector
	root    string
	verbose bool
	copying bool
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.stats.Tick()
			if p.copying {
				p.printProgress()
			}
		}
	}
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.RootSkipped:
		fmt.Fprintf(p.errW, "skip root %s: %s\n", ev.Path, errText(ev))
	case event.FolderSkipped:
		if p.verbose {
			fmt.Fprintf(p.errW, "skip %s: %s\n", ev.Path, errText(ev))
		}
	case event.FolderSized:
		if p.verbose {
			fmt.Fprintf(p.w, "%s  %s\n", ev.Path, FormatBytes(ev.Size))
		}
	case event.StateEntered:
		fmt.Fprintf(p.errW, "%s...\n", ev.State)
	case event.CopyStarted:
		p.copying = true
		p.root = ev.Path
	case event.FileCopied:
		if p.verbose {
			fmt.Fprintf(p.w, "%s  %s\n", stripRoot(p.root, ev.Path), FormatBytes(ev.Size))
		}
	case event.FileFailed:
		fmt.Fprintf(p.errW, "failed: %s: %s\n", stripRoot(p.root, ev.Path), errText(ev))
	case event.VerifyStarted:
		p.copying = false
		fmt.Fprintln(p.errW, "verifying checksums...")
	case event.VerifyFailed:
		fmt.Fprintf(p.errW, "MISMATCH: %s (%s)\n", ev.Path, ev.Message)
	case event.RollbackStep:
		fmt.Fprintf(p.errW, "rollback: %s\n", ev.Message)
	case event.RelocationDone:
		p.copying = false
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	if snap.BytesTotal > 0 {
		pct := float64(snap.BytesCopied) / float64(snap.BytesTotal) * 100
		fmt.Fprintf(p.errW, "progress: %.0f%% %s/%s %s/%s files %s eta %s\n",
			pct,
			FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesTotal),
			FormatCount(snap.FilesCopied), FormatCount(snap.FilesTotal),
			FormatRate(p.stats.RollingSpeed(10)),
			FormatETA(p.stats.ETA()),
		)
		return
	}
	fmt.Fprintf(p.errW, "progress: %s copied %s files\n",
		FormatBytes(snap.BytesCopied),
		FormatCount(snap.FilesCopied),
	)
}

func (p *plainPresenter) Summary() string {
	return summaryFor(p.stats.Snapshot())
}
