// Package roots resolves the per-user application-data directories a scan
// starts from.
package roots

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

// Defaults returns the application-data roots of the current user. On
// Windows these are Roaming, Local and LocalLow; elsewhere the XDG data,
// config and cache homes. Only existing directories are returned, in that
// order and without duplicates.
func Defaults() []string {
	if runtime.GOOS == "windows" {
		return Existing(windowsRoots(os.Getenv))
	}
	return Existing([]string{xdg.DataHome, xdg.ConfigHome, xdg.CacheHome})
}

func windowsRoots(getenv func(string) string) []string {
	local := getenv("LOCALAPPDATA")
	out := []string{getenv("APPDATA"), local}
	if local != "" {
		out = append(out, filepath.Join(filepath.Dir(local), "LocalLow"))
	}
	return out
}

// Existing cleans paths and keeps the ones that name a directory, dropping
// empty strings and repeats.
func Existing(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			out = append(out, p)
		}
	}
	return out
}
