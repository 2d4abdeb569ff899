package engine

import "sync"

// temps tracks in-progress temporary files and staging directories so an
// interrupted process can sweep them on the way out.
var temps = &tmpRegistry{}

type tmpRegistry struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

// RegisterTemp records a temporary path for CleanupTemps.
func RegisterTemp(path string) {
	temps.mu.Lock()
	defer temps.mu.Unlock()
	if temps.paths == nil {
		temps.paths = make(map[string]struct{})
	}
	temps.paths[path] = struct{}{}
}

// ReleaseTemp forgets path once it has been renamed into place or removed.
func ReleaseTemp(path string) {
	temps.mu.Lock()
	defer temps.mu.Unlock()
	delete(temps.paths, path)
}

// CleanupTemps removes every registered path, directories included, and
// resets the registry.
func CleanupTemps() {
	temps.mu.Lock()
	paths := make([]string, 0, len(temps.paths))
	for p := range temps.paths {
		paths = append(paths, p)
	}
	temps.paths = nil
	temps.mu.Unlock()

	for _, p := range paths {
		_ = RemoveTree(p)
	}
}
