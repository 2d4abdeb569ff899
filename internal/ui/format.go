package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bamsammich/offload/internal/stats"
)

// FormatBytes wraps stats.FormatBytes for UI use.
func FormatBytes(b int64) string {
	return stats.FormatBytes(b)
}

// FormatRate renders a bytes-per-second rate with three significant digits.
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec <= 0 {
		return "0 B/s"
	}
	units := [...]string{"B/s", "KB/s", "MB/s", "GB/s", "TB/s"}
	val := bytesPerSec
	for _, u := range units {
		if val >= 1024 {
			val /= 1024
			continue
		}
		switch {
		case val < 10:
			return fmt.Sprintf("%.2f %s", val, u)
		case val < 100:
			return fmt.Sprintf("%.1f %s", val, u)
		default:
			return fmt.Sprintf("%.0f %s", val, u)
		}
	}
	return fmt.Sprintf("%.1f PB/s", val)
}

// FormatDuration renders d as "1h 02m 03s", "3m 17s" or "30s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatETA is FormatDuration with "--" for an unknown estimate.
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return "--"
	}
	return FormatDuration(d)
}

// FormatCount renders n with comma thousands separators.
func FormatCount(n int64) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ProgressBar renders pct (clamped to [0, 1]) as width cells of ▪ and □.
func ProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = max(0, min(pct, 1))
	filled := min(int(pct*float64(width)), width)
	return strings.Repeat("▪", filled) + strings.Repeat("□", width-filled)
}

// ShortenPath keeps the tail of path so it fits in maxLen runes.
func ShortenPath(path string, maxLen int) string {
	n := utf8.RuneCountInString(path)
	if n <= maxLen {
		return path
	}
	runes := []rune(path)
	if maxLen <= 3 {
		return string(runes[n-max(maxLen, 0):])
	}
	return "..." + string(runes[n-maxLen+3:])
}
