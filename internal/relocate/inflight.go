package relocate

import (
	"fmt"
	"sync"
)

// active holds the paths of every relocation currently executing in this
// process. Two plans overlap when any of their paths is equal to, inside,
// or above a path of the other.
var active = &inflight{plans: make(map[*Plan]struct{})}

type inflight struct {
	mu    sync.Mutex
	plans map[*Plan]struct{}
}

// acquire registers p, or fails with ErrBusy when it overlaps a plan that
// is already executing. The returned func releases the registration.
func (r *inflight) acquire(p Plan) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for other := range r.plans {
		if a, b, ok := overlap(p, *other); ok {
			return nil, fmt.Errorf("%w: %s overlaps %s", ErrBusy, a, b)
		}
	}
	entry := &p
	r.plans[entry] = struct{}{}
	return func() {
		r.mu.Lock()
		delete(r.plans, entry)
		r.mu.Unlock()
	}, nil
}

func (p Plan) paths() []string {
	out := []string{p.Source, p.Destination}
	if p.Backup != "" {
		out = append(out, p.Backup)
	}
	return out
}

func overlap(a, b Plan) (string, string, bool) {
	for _, x := range a.paths() {
		for _, y := range b.paths() {
			if isUnder(x, y) || isUnder(y, x) {
				return x, y, true
			}
		}
	}
	return "", "", false
}
