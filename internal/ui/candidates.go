package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/bamsammich/offload/internal/scan"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ListMode selects how scan candidates are written.
type ListMode int

const (
	// ListTable is a bordered, styled table for terminals.
	ListTable ListMode = iota
	// ListPlain is one "<bytes>\t<path>" line per candidate.
	ListPlain
	// ListJSON is a single JSON document.
	ListJSON
)

// ListOptions configures WriteCandidates.
type ListOptions struct {
	Mode      ListMode
	Width     int // terminal columns, ListTable only
	Threshold int64
}

type candidateReport struct {
	Threshold  int64            `json:"threshold"`
	TotalSize  int64            `json:"total_size"`
	Candidates []scan.Candidate `json:"candidates"`
	Skipped    []skipReport     `json:"skipped,omitempty"`
}

type skipReport struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// WriteCandidates renders the ranked candidates of res to w. Skipped
// folders are only part of the JSON form; the other modes leave them to
// WriteSkips.
func WriteCandidates(w io.Writer, res scan.Result, opts ListOptions) error {
	switch opts.Mode {
	case ListJSON:
		return writeJSON(w, res, opts.Threshold)
	case ListPlain:
		for _, c := range res.Candidates {
			if _, err := fmt.Fprintf(w, "%d\t%s\n", c.Size, c.Path); err != nil {
				return err
			}
		}
		return nil
	default:
		return writeTable(w, res, opts)
	}
}

func writeJSON(w io.Writer, res scan.Result, threshold int64) error {
	report := candidateReport{
		Threshold:  threshold,
		TotalSize:  res.TotalSize(),
		Candidates: res.Candidates,
	}
	if report.Candidates == nil {
		report.Candidates = []scan.Candidate{}
	}
	for _, s := range res.Skipped {
		report.Skipped = append(report.Skipped, skipReport{Path: s.Path, Error: s.Err.Error()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// fixed columns: rank, size and the table borders and padding.
const tableChrome = 24

func writeTable(w io.Writer, res scan.Result, opts ListOptions) error {
	if len(res.Candidates) == 0 {
		_, err := fmt.Fprintln(w, styleMuted.Render(
			"no folders of "+FormatBytes(opts.Threshold)+" or more"))
		return err
	}

	pathWidth := max(opts.Width-tableChrome, 20)
	rows := make([][]string, 0, len(res.Candidates))
	for i, c := range res.Candidates {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			FormatBytes(c.Size),
			ShortenPath(c.Path, pathWidth),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("#", "SIZE", "PATH").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 2:
				return stylePath
			default:
				return styleSize
			}
		})

	_, err := fmt.Fprintf(w, "%s\n%s\n", t.Render(), styleMuted.Render(fmt.Sprintf(
		"%d folders, %s total", len(res.Candidates), FormatBytes(res.TotalSize()))))
	return err
}

// WriteSkips reports folders the scan could not size: every one when
// verbose, otherwise a single count line.
func WriteSkips(w io.Writer, skipped []scan.Skip, verbose bool) {
	if len(skipped) == 0 {
		return
	}
	if !verbose {
		fmt.Fprintf(w, "%s\n", styleWarn.Render(fmt.Sprintf(
			"%d folders could not be sized (use -v to list them)", len(skipped))))
		return
	}
	for _, s := range skipped {
		fmt.Fprintf(w, "%s %s: %v\n", styleWarn.Render("skipped"), s.Path, s.Err)
	}
}
