package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bamsammich/offload/internal/stats"
)

// copySummary builds the final line of a relocation copy.
// Format: copied ✓  files 48,917  size 2.1 GiB  avg 641 MB/s  time 3m 17s  errors 0
func copySummary(snap stats.Snapshot) string {
	avgSpeed := 0.0
	if snap.Elapsed.Seconds() > 0 {
		avgSpeed = float64(snap.BytesCopied) / snap.Elapsed.Seconds()
	}

	icon := "✓"
	failed := snap.FilesFailed + snap.FilesVerifyFailed
	if failed > 0 {
		icon = "✗"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "copied %s  files %s  size %s  avg %s  time %s",
		icon,
		FormatCount(snap.FilesCopied+snap.LinksCopied+snap.HardlinksCreated),
		FormatBytes(snap.BytesCopied),
		FormatRate(avgSpeed),
		FormatDuration(snap.Elapsed),
	)
	if snap.FilesVerified > 0 || snap.FilesVerifyFailed > 0 {
		fmt.Fprintf(&b, "  verified %s", FormatCount(snap.FilesVerified))
	}
	fmt.Fprintf(&b, "  errors %d", failed)
	return b.String()
}

// scanSummary builds the final line of a scan.
// Format: sized 37 folders  files 120,331  size 18.2 GiB  time 4s  skipped 2
func scanSummary(snap stats.Snapshot) string {
	s := fmt.Sprintf("sized %s folders  files %s  size %s  time %s",
		FormatCount(snap.FoldersSized),
		FormatCount(snap.FilesScanned),
		FormatBytes(snap.BytesScanned),
		FormatDuration(snap.Elapsed),
	)
	if snap.FoldersSkipped > 0 {
		s += fmt.Sprintf("  skipped %d", snap.FoldersSkipped)
	}
	return s
}

// summaryFor picks the summary that matches the work the collector saw.
func summaryFor(snap stats.Snapshot) string {
	switch {
	case snap.FilesTotal > 0 || snap.DirsCreated > 0:
		return copySummary(snap)
	case snap.FoldersSized > 0 || snap.FoldersSkipped > 0:
		return scanSummary(snap)
	default:
		return ""
	}
}

// stripRoot makes path relative to root for display, or returns it as is.
func stripRoot(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
