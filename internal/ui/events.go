package ui

import "github.com/bamsammich/ferry/internal/event"

// Event is the engine event consumed by presenters.
type Event = event.Event

const (
	DirCreated      = event.DirCreated
	FileCopied      = event.FileCopied
	FileMoved       = event.FileMoved
	DirRemoved      = event.DirRemoved
	ItemDeleted     = event.ItemDeleted
	ConflictRenamed = event.ConflictRenamed
	ItemFailed      = event.ItemFailed
	VerifyOK        = event.VerifyOK
	VerifyFailed    = event.VerifyFailed
)
