package engine

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/bamsammich/ferry/internal/vfs"
)

// Rename moves item to newName within its parent directory. An existing
// item with that name is a ConflictError. Renaming to the current name does
// nothing and touches no filesystem state.
func (e *Engine) Rename(ctx context.Context, item vfs.Entry, newName string) error {
	name := item.Name
	if name == "" {
		name = filepath.Base(item.Path)
	}
	if newName == name {
		return nil
	}
	if !validName(newName) {
		return ItemError{Path: newName, Err: ErrInvalidName}
	}
	return e.moveTree(ctx, item.Path, filepath.Join(ParentDir(item.Path), newName), false)
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsRune(name, filepath.Separator) && !strings.ContainsRune(name, 0)
}
