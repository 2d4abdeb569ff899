package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/offload/internal/relocate"
)

// WritePlan prints the paths a relocation will touch.
func WritePlan(w io.Writer, p relocate.Plan, size int64) {
	label := func(s string) string { return styleMuted.Render(fmt.Sprintf("%-12s", s)) }
	fmt.Fprintf(w, "%s%s\n", label("source"), p.Source)
	if size >= 0 {
		fmt.Fprintf(w, "%s%s\n", label("size"), FormatBytes(size))
	}
	fmt.Fprintf(w, "%s%s\n", label("destination"), p.Destination)
	fmt.Fprintf(w, "%s%s\n", label("backup"), p.Backup)
}

// WriteResult prints the outcome headline followed by the result message.
func WriteResult(w io.Writer, res relocate.Result) {
	var head string
	switch res.Outcome {
	case relocate.Success:
		head = styleOK.Render("✓ relocated")
	case relocate.RolledBack:
		head = styleWarn.Render("✗ rolled back")
	case relocate.FailedUnrecoverable:
		head = styleError.Render("✗ FAILED, manual recovery needed")
	default:
		head = styleWarn.Render("✗ " + res.Outcome.String())
	}
	fmt.Fprintf(w, "%s\n%s\n", head, res.Message())
}
