package relocate

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bamsammich/offload/internal/link"
	"github.com/google/uuid"
)

const (
	backupInfix  = ".offload-bak-"
	stagingInfix = ".offload-staging-"
	maxNameTries = 16
	tokenLength  = 8
)

// Plan is a validated relocation request. All paths are absolute and clean.
type Plan struct {
	Source            string `json:"source"`
	DestinationParent string `json:"destination_parent"`
	Destination       string `json:"destination"`
	Backup            string `json:"backup"`
}

// NewPlan validates a request to move source into destinationParent and
// derives the destination and backup paths. Every failure wraps
// ErrInvalidInput and happens before anything on disk changes.
func NewPlan(source, destinationParent string) (Plan, error) {
	if strings.TrimSpace(source) == "" {
		return Plan{}, invalid("source is empty")
	}
	if strings.TrimSpace(destinationParent) == "" {
		return Plan{}, invalid("destination parent is empty")
	}

	src, err := filepath.Abs(source)
	if err != nil {
		return Plan{}, invalid("resolve %s: %v", source, err)
	}
	parent, err := filepath.Abs(destinationParent)
	if err != nil {
		return Plan{}, invalid("resolve %s: %v", destinationParent, err)
	}

	p := Plan{
		Source:            src,
		DestinationParent: parent,
		Destination:       filepath.Join(parent, filepath.Base(src)),
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}

	backup, err := uniqueSibling(src, backupInfix)
	if err != nil {
		return Plan{}, err
	}
	p.Backup = backup
	return p, nil
}

// Validate re-checks the plan against the filesystem as it is now: the
// source is a real directory, the parent is a directory outside the
// source, and nothing occupies the destination or backup paths.
func (p Plan) Validate() error {
	if p.Source == "" || p.DestinationParent == "" || p.Destination == "" {
		return invalid("incomplete plan")
	}
	if filepath.Dir(p.Source) == p.Source {
		return invalid("source %s is a filesystem root", p.Source)
	}

	switch st, err := link.Inspect(p.Source); {
	case err != nil:
		return invalid("source %s: %v", p.Source, err)
	case st == link.Missing:
		return invalid("source %s does not exist", p.Source)
	case st == link.Link:
		return invalid("source %s is already a link", p.Source)
	case st != link.Directory:
		return invalid("source %s is not a directory", p.Source)
	}

	info, err := os.Stat(p.DestinationParent)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return invalid("destination parent %s does not exist", p.DestinationParent)
	case err != nil:
		return invalid("destination parent %s: %v", p.DestinationParent, err)
	case !info.IsDir():
		return invalid("destination parent %s is not a directory", p.DestinationParent)
	}

	if occupied(p.Destination) {
		return invalid("destination %s already exists", p.Destination)
	}
	if p.Backup != "" && occupied(p.Backup) {
		return invalid("backup path %s already exists", p.Backup)
	}

	inside, err := within(p.DestinationParent, p.Source)
	if err != nil {
		return invalid("resolve %s: %v", p.DestinationParent, err)
	}
	if inside {
		return invalid("destination %s is inside source %s", p.Destination, p.Source)
	}
	return nil
}

// uniqueSibling returns an unused path beside path, named
// <path><infix><token>.
func uniqueSibling(path, infix string) (string, error) {
	for range maxNameTries {
		candidate := path + infix + token()
		if !occupied(candidate) {
			return candidate, nil
		}
	}
	return "", invalid("no free name beside %s", path)
}

func token() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:tokenLength]
}

func occupied(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// within reports whether path is root or lies below it once symlinks in
// both are resolved.
func within(path, root string) (bool, error) {
	rp, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false, err
	}
	rr, err := filepath.EvalSymlinks(root)
	if err != nil {
		return false, err
	}
	return isUnder(rp, rr), nil
}

// isUnder compares cleaned absolute paths lexically.
func isUnder(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
