package engine

import (
	"context"
	"path/filepath"

	"github.com/bamsammich/ferry/internal/event"
	"github.com/bamsammich/ferry/internal/vfs"
)

// Move moves src to dst. Files are moved with one gateway call. Directories
// are recreated at dst, their children moved recursively, and the emptied
// source removed. A directory is never merged into an existing one: a taken
// dst is renamed with the move suffix when inject is set and is a
// ConflictError otherwise.
func (e *Engine) Move(ctx context.Context, src, dst string, inject bool) error {
	if err := checkNesting(src, dst); err != nil {
		return err
	}
	return e.moveTree(ctx, src, dst, inject)
}

func (e *Engine) moveTree(ctx context.Context, src, dst string, inject bool) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	entry, err := e.gw.Stat(ctx, src)
	if err != nil {
		return e.fail(src, err)
	}
	if !entry.IsDir {
		target, err := e.land(ctx, dst, inject, e.opts.MoveSuffix, func(target string) error {
			return e.gw.MoveFile(ctx, src, target)
		})
		if err != nil {
			return e.fail(src, err)
		}
		e.stats.AddFilesMoved(1)
		e.emit(event.Event{Type: event.FileMoved, Path: src, Dest: target, Size: entry.Size})
		return nil
	}

	target, err := e.land(ctx, dst, inject, e.opts.MoveSuffix, func(target string) error {
		return e.gw.MakeDirectory(ctx, target)
	})
	if err != nil {
		return e.fail(src, err)
	}
	e.stats.AddDirsCreated(1)
	e.emit(event.Event{Type: event.DirCreated, Path: src, Dest: target})

	children, err := e.gw.ListDirectory(ctx, src)
	if err != nil {
		return e.fail(src, err)
	}
	err = forEach(children, func(child vfs.Entry) error {
		return e.moveTree(ctx, child.Path, filepath.Join(target, child.Name), inject)
	})
	if err != nil {
		// Leave the partly moved source in place.
		return err
	}

	if err := e.gw.Delete(ctx, src); err != nil {
		return e.fail(src, err)
	}
	e.stats.AddDirsRemoved(1)
	e.emit(event.Event{Type: event.DirRemoved, Path: src})
	return nil
}

// MoveBatched moves every source into dstDir concurrently. Unlike
// CopyBatched it does no capacity check.
func (e *Engine) MoveBatched(ctx context.Context, sources []string, dstDir string, inject bool) error {
	errs := eachPath(sources, func(_ int, src string) error {
		return e.Move(ctx, src, filepath.Join(dstDir, filepath.Base(src)), inject)
	})
	return newBatchError("move", sources, errs)
}
