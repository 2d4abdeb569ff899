package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanStarted Type = iota + 1
	RootSkipped
	FolderSized
	FolderSkipped
	ScanComplete
	CopyStarted
	DirCreated
	FileCopied
	LinkCopied
	HardlinkCreated
	FileFailed
	VerifyStarted
	VerifyOK
	VerifyFailed
	StateEntered
	RollbackStep
	RelocationDone
)

var typeNames = [...]string{
	ScanStarted:     "ScanStarted",
	RootSkipped:     "RootSkipped",
	FolderSized:     "FolderSized",
	FolderSkipped:   "FolderSkipped",
	ScanComplete:    "ScanComplete",
	CopyStarted:     "CopyStarted",
	DirCreated:      "DirCreated",
	FileCopied:      "FileCopied",
	LinkCopied:      "LinkCopied",
	HardlinkCreated: "HardlinkCreated",
	FileFailed:      "FileFailed",
	VerifyStarted:   "VerifyStarted",
	VerifyOK:        "VerifyOK",
	VerifyFailed:    "VerifyFailed",
	StateEntered:    "StateEntered",
	RollbackStep:    "RollbackStep",
	RelocationDone:  "RelocationDone",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single progress notification from the scanner or the
// relocation engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string
	State     string // relocation state for StateEntered / RollbackStep
	Message   string
	Size      int64 // bytes for the path, or bytes so far
	Total     int64 // roots (ScanStarted) or candidates (ScanComplete)
	TotalSize int64
	Error     error
}

// Send stamps e and delivers it without blocking. A nil channel or a full
// buffer drops the event; progress reporting never stalls the work.
func Send(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}
