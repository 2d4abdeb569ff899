package relocate

// State is a step of the relocation sequence.
type State int

const (
	Idle State = iota
	Copying
	BackingUp
	Linking
	Verifying
	CleaningUp
	RollingBack
	Done
)

var stateNames = [...]string{
	Idle:        "idle",
	Copying:     "copying",
	BackingUp:   "backing up",
	Linking:     "linking",
	Verifying:   "verifying",
	CleaningUp:  "cleaning up",
	RollingBack: "rolling back",
	Done:        "done",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Outcome is the terminal result of Execute.
type Outcome int

const (
	// Success: the source path is a verified link to the destination.
	Success Outcome = iota
	// RolledBack: a step failed and the original layout was restored.
	RolledBack
	// FailedUnrecoverable: rollback itself failed.
	FailedUnrecoverable
	// Rejected: preconditions failed before anything was touched.
	Rejected
)

var outcomeNames = [...]string{
	Success:             "success",
	RolledBack:          "rolled back",
	FailedUnrecoverable: "failed unrecoverable",
	Rejected:            "rejected",
}

func (o Outcome) String() string {
	if o >= 0 && int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// SourceState describes what occupies the original source path after
// Execute returns.
type SourceState int

const (
	SourceMissing SourceState = iota
	// SourceOriginal: the original real directory.
	SourceOriginal
	// SourceLink: a link, normally to the destination.
	SourceLink
	// SourceOther: neither a directory nor a link.
	SourceOther
)

var sourceStateNames = [...]string{
	SourceMissing:  "missing",
	SourceOriginal: "original directory",
	SourceLink:     "link",
	SourceOther:    "other",
}

func (s SourceState) String() string {
	if s >= 0 && int(s) < len(sourceStateNames) {
		return sourceStateNames[s]
	}
	return "unknown"
}
