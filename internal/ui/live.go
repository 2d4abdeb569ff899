package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/offload/internal/event"
	"github.com/bamsammich/offload/internal/stats"
)

const (
	progressBarWidth = 20
	statusMinRedraw  = 50 * time.Millisecond
	statusPathWidth  = 40
)

// livePresenter prints relocation steps as permanent lines and keeps a
// single status line at the bottom of the terminal that is redrawn in place.
type livePresenter struct {
	w       io.Writer
	stats   *stats.Collector
	root    string
	verbose bool

	phase      string // "sizing", a relocation state, or empty
	current    string // last folder sized
	statusUp   bool
	lastRedraw time.Time
}

func (p *livePresenter) Run(events <-chan event.Event) error {
	// Seed the throughput ring quickly, then settle to one tick per second.
	secTicker := time.NewTicker(250 * time.Millisecond)
	defer secTicker.Stop()
	seeded := false

	redrawTicker := time.NewTicker(100 * time.Millisecond)
	defer redrawTicker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clearStatus()
				return nil
			}
			p.handleEvent(ev)
			p.maybeDrawStatus()

		case <-redrawTicker.C:
			p.drawStatus()

		case <-secTicker.C:
			p.stats.Tick()
			if !seeded {
				seeded = true
				secTicker.Reset(time.Second)
			}
		}
	}
}

func (p *livePresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.ScanStarted:
		p.phase = "sizing"
	case event.FolderSized:
		p.current = ev.Path
	case event.RootSkipped:
		p.println(styleWarn.Render("skip root ") + ev.Path + ": " + errText(ev))
	case event.FolderSkipped:
		if p.verbose {
			p.println(styleWarn.Render("skip ") + ev.Path + ": " + errText(ev))
		}
	case event.ScanComplete:
		p.phase = ""
	case event.StateEntered:
		p.phase = ev.State
		p.println(styleState.Render("› " + ev.State))
	case event.CopyStarted:
		p.root = ev.Path
	case event.FileCopied:
		if p.verbose {
			p.println(fmt.Sprintf("✓  %s  %s", stripRoot(p.root, ev.Path), styleMuted.Render(FormatBytes(ev.Size))))
		}
	case event.FileFailed:
		p.println(styleError.Render("✗  ") + stripRoot(p.root, ev.Path) + "  " + errText(ev))
	case event.VerifyStarted:
		p.println(styleMuted.Render("verifying checksums..."))
	case event.VerifyFailed:
		p.println(styleError.Render("✗  ") + ev.Path + "  CHECKSUM MISMATCH " + styleMuted.Render(ev.Message))
	case event.RollbackStep:
		p.println(styleWarn.Render("↺ " + ev.Message))
	case event.RelocationDone:
		p.phase = ""
	}
}

// println writes a permanent line above the status line.
func (p *livePresenter) println(line string) {
	p.clearStatus()
	fmt.Fprintln(p.w, line)
	p.drawStatus()
}

func (p *livePresenter) maybeDrawStatus() {
	if time.Since(p.lastRedraw) < statusMinRedraw {
		return
	}
	p.drawStatus()
}

func (p *livePresenter) drawStatus() {
	p.clearStatus()
	line := p.statusLine()
	if line == "" {
		return
	}
	fmt.Fprint(p.w, line)
	p.statusUp = true
	p.lastRedraw = time.Now()
}

func (p *livePresenter) statusLine() string {
	snap := p.stats.Snapshot()
	switch p.phase {
	case "":
		return ""
	case "sizing":
		return fmt.Sprintf("%s  %s folders  %s  %s",
			styleState.Render("sizing"),
			FormatCount(snap.FoldersSized),
			FormatBytes(snap.BytesScanned),
			styleMuted.Render(ShortenPath(p.current, statusPathWidth)))
	}
	if snap.BytesTotal == 0 && snap.BytesCopied == 0 {
		return styleState.Render(p.phase) + styleMuted.Render("  "+FormatDuration(snap.Elapsed))
	}
	var pct float64
	if snap.BytesTotal > 0 {
		pct = float64(snap.BytesCopied) / float64(snap.BytesTotal)
	}
	return fmt.Sprintf("%s %3.0f%%  %s  %s / %s  %s  eta %s",
		styleState.Render(p.phase),
		pct*100,
		ProgressBar(pct, progressBarWidth),
		FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesTotal),
		FormatRate(p.stats.RollingSpeed(10)),
		FormatETA(p.stats.ETA()))
}

func (p *livePresenter) clearStatus() {
	if !p.statusUp {
		return
	}
	// Carriage return and clear to end of line.
	fmt.Fprint(p.w, "\r\033[K")
	p.statusUp = false
}

func (p *livePresenter) Summary() string {
	return summaryFor(p.stats.Snapshot())
}
