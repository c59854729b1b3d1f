package engine

import (
	"context"

	"github.com/bamsammich/ferry/internal/event"
	"github.com/bamsammich/ferry/internal/vfs"
)

// Delete removes a single file or empty directory. It never recurses; a
// directory that still has children fails with the OS error.
func (e *Engine) Delete(ctx context.Context, path string) error {
	if err := e.gw.Delete(ctx, path); err != nil {
		return e.fail(path, err)
	}
	e.stats.AddItemsDeleted(1)
	e.emit(event.Event{Type: event.ItemDeleted, Path: path})
	return nil
}

// DeleteBatched deletes every path concurrently. A failing path neither
// blocks nor undoes the others; all failures are reported in a BatchError.
func (e *Engine) DeleteBatched(ctx context.Context, paths []string) error {
	errs := eachPath(paths, func(_ int, p string) error {
		return e.Delete(ctx, p)
	})
	return newBatchError("delete", paths, errs)
}

// DeleteTree removes path and, if it is a directory, everything below it.
// Children are removed before their parent.
func (e *Engine) DeleteTree(ctx context.Context, path string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	entry, err := e.gw.Stat(ctx, path)
	if err != nil {
		return e.fail(path, err)
	}
	if entry.IsDir {
		children, err := e.gw.ListDirectory(ctx, path)
		if err != nil {
			return e.fail(path, err)
		}
		err = forEach(children, func(child vfs.Entry) error {
			return e.DeleteTree(ctx, child.Path)
		})
		if err != nil {
			return err
		}
	}
	return e.Delete(ctx, path)
}

// DeleteTreeBatched is DeleteBatched with recursive removal.
func (e *Engine) DeleteTreeBatched(ctx context.Context, paths []string) error {
	errs := eachPath(paths, func(_ int, p string) error {
		return e.DeleteTree(ctx, p)
	})
	return newBatchError("delete", paths, errs)
}
