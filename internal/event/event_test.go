package event

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		want string
		typ  Type
	}{
		{want: "DirCreated", typ: DirCreated},
		{want: "FileCopied", typ: FileCopied},
		{want: "FileMoved", typ: FileMoved},
		{want: "DirRemoved", typ: DirRemoved},
		{want: "ItemDeleted", typ: ItemDeleted},
		{want: "ConflictRenamed", typ: ConflictRenamed},
		{want: "ItemFailed", typ: ItemFailed},
		{want: "VerifyOK", typ: VerifyOK},
		{want: "VerifyFailed", typ: VerifyFailed},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", Type(0).String())
	assert.Equal(t, "Unknown", Type(999).String())
}

func TestEmit(t *testing.T) {
	ch := make(chan Event, 1)
	boom := errors.New("boom")

	Emit(ch, Event{Type: ItemFailed, Path: "/a", Error: boom})
	got := <-ch
	assert.Equal(t, ItemFailed, got.Type)
	assert.Equal(t, "/a", got.Path)
	require.ErrorIs(t, got.Error, boom)
	assert.False(t, got.Timestamp.IsZero())
}

func TestEmitKeepsTimestamp(t *testing.T) {
	ch := make(chan Event, 1)
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	Emit(ch, Event{Type: FileCopied, Timestamp: ts})
	assert.Equal(t, ts, (<-ch).Timestamp)
}

func TestEmitNeverBlocks(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ch, Event{Type: FileCopied})
	Emit(ch, Event{Type: FileMoved}) // buffer full, dropped

	assert.Len(t, ch, 1)
	assert.Equal(t, FileCopied, (<-ch).Type)

	Emit(nil, Event{Type: FileCopied}) // no panic
}
