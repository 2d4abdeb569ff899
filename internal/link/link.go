// Package link creates, removes and verifies the directory links that keep a
// relocated folder reachable at its original path.
package link

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrNotLink means the path exists but is not a link.
	ErrNotLink = errors.New("not a link")
	// ErrWrongTarget means the link resolves somewhere other than expected.
	ErrWrongTarget = errors.New("link points elsewhere")
)

// State describes what currently occupies a path.
type State int

const (
	Missing State = iota
	Directory
	Link
	Other
)

func (s State) String() string {
	switch s {
	case Missing:
		return "missing"
	case Directory:
		return "directory"
	case Link:
		return "link"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// Inspect reports what is at path without following links.
func Inspect(path string) (State, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Missing, nil
	}
	if err != nil {
		return Other, err
	}
	switch {
	case isLinkMode(info.Mode()):
		return Link, nil
	case info.IsDir():
		return Directory, nil
	default:
		return Other, nil
	}
}

// IsLink reports whether path is a link. A missing path is not an error.
func IsLink(path string) (bool, error) {
	st, err := Inspect(path)
	return st == Link, err
}

// Create makes path a directory link to target. It refuses to replace
// anything already at path.
func Create(path, target string) error {
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("create link %s: %w", path, fs.ErrExist)
	}
	if err := os.Symlink(target, path); err != nil {
		return fmt.Errorf("create link %s -> %s: %w", path, target, err)
	}
	return nil
}

// Remove deletes the link at path, never what it points to.
func Remove(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("remove link %s: %w", path, err)
	}
	if !isLinkMode(info.Mode()) {
		return fmt.Errorf("remove link %s: %w", path, ErrNotLink)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove link %s: %w", path, err)
	}
	return nil
}

// Target returns the absolute, cleaned destination recorded in the link at
// path. Relative link contents are resolved against the link's directory.
func Target(path string) (string, error) {
	raw, err := os.Readlink(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(raw) {
		raw = filepath.Join(filepath.Dir(path), raw)
	}
	return filepath.Clean(raw), nil
}

// Check returns nil when path is a link that resolves to expected, and an
// error describing the first disagreement otherwise.
func Check(path, expected string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	if !isLinkMode(info.Mode()) {
		return fmt.Errorf("%s: %w", path, ErrNotLink)
	}

	target, err := Target(path)
	if err != nil {
		return fmt.Errorf("read link %s: %w", path, err)
	}

	want, err := filepath.Abs(expected)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", expected, err)
	}

	resolved, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s -> %s does not resolve: %w", path, target, err)
	}

	if samePath(target, want) {
		return nil
	}
	if wantInfo, err := os.Stat(want); err == nil && os.SameFile(resolved, wantInfo) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s, want %s", ErrWrongTarget, path, target, want)
}

// Verify is Check reduced to a yes/no answer. Filesystem errors count as a
// failed verification.
func Verify(path, expected string) bool {
	return Check(path, expected) == nil
}
