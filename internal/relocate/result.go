package relocate

import (
	"fmt"
	"strings"
)

// Message explains the result in one or more lines for a person: what
// happened, which paths were touched and why it failed if it did.
func (r Result) Message() string {
	var b strings.Builder
	p := r.Plan
	switch r.Outcome {
	case Success:
		fmt.Fprintf(&b, "moved %s to %s; %s is now a link to it", p.Source, r.LinkTarget, p.Source)
	case RolledBack:
		fmt.Fprintf(&b, "relocation of %s failed while %s: %v\n", p.Source, r.FailedState, r.Err)
		fmt.Fprintf(&b, "the original directory is intact at %s", p.Source)
	case FailedUnrecoverable:
		fmt.Fprintf(&b, "relocation of %s failed while %s and could not be rolled back: %v\n",
			p.Source, r.FailedState, r.Err)
		fmt.Fprintf(&b, "nothing further was changed; check %s (original path, now %s), %s (backup) and %s (copy) by hand",
			p.Source, r.FinalSourceState, p.Backup, p.Destination)
	case Rejected:
		fmt.Fprintf(&b, "relocation of %s not started: %v", p.Source, r.Err)
	default:
		fmt.Fprintf(&b, "relocation of %s ended in unknown outcome %d", p.Source, int(r.Outcome))
	}
	for _, w := range r.Warnings {
		b.WriteString("\nwarning: ")
		b.WriteString(w)
	}
	return b.String()
}
