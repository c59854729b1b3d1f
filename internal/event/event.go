package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	DirCreated Type = iota + 1
	FileCopied
	FileMoved
	DirRemoved
	ItemDeleted
	ConflictRenamed
	ItemFailed
	VerifyOK
	VerifyFailed
)

var typeNames = [...]string{
	DirCreated:      "DirCreated",
	FileCopied:      "FileCopied",
	FileMoved:       "FileMoved",
	DirRemoved:      "DirRemoved",
	ItemDeleted:     "ItemDeleted",
	ConflictRenamed: "ConflictRenamed",
	ItemFailed:      "ItemFailed",
	VerifyOK:        "VerifyOK",
	VerifyFailed:    "VerifyFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the engine.
type Event struct {
	Timestamp time.Time
	Error     error
	Path      string // source, or the item acted on
	Dest      string // destination for copies, moves and renames
	Size      int64
	Type      Type
}

// Emit sends e on ch without blocking. Events are dropped when nobody is
// keeping up; a nil ch discards everything.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	select {
	case ch <- e:
	default:
	}
}
