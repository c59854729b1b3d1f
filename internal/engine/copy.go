package engine

import (
	"context"
	"path/filepath"

	"github.com/bamsammich/ferry/internal/event"
	"github.com/bamsammich/ferry/internal/vfs"
)

// Copy copies src to dst, recursing into directories. dst names the new
// item itself, not its parent. When dst exists, it is renamed with the copy
// suffix if inject is set; otherwise Copy fails with a ConflictError. The
// same rule applies to every item inside a copied directory.
func (e *Engine) Copy(ctx context.Context, src, dst string, inject bool) error {
	if err := checkNesting(src, dst); err != nil {
		return err
	}
	return e.copyTree(ctx, src, dst, inject)
}

func (e *Engine) copyTree(ctx context.Context, src, dst string, inject bool) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	entry, err := e.gw.Stat(ctx, src)
	if err != nil {
		return e.fail(src, err)
	}

	if !entry.IsDir {
		target, err := e.land(ctx, dst, inject, e.opts.CopySuffix, func(target string) error {
			return e.gw.CopyFile(ctx, src, target)
		})
		if err != nil {
			return e.fail(src, err)
		}
		return e.copied(ctx, entry, target)
	}

	target, err := e.land(ctx, dst, inject, e.opts.CopySuffix, func(target string) error {
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
	return forEach(children, func(child vfs.Entry) error {
		return e.copyTree(ctx, child.Path, filepath.Join(target, child.Name), inject)
	})
}

// copied records a file that landed at dst and verifies it when asked.
func (e *Engine) copied(ctx context.Context, entry vfs.Entry, dst string) error {
	e.stats.AddFilesCopied(1)
	e.stats.AddBytesCopied(entry.Size)
	e.emit(event.Event{Type: event.FileCopied, Path: entry.Path, Dest: dst, Size: entry.Size})

	if e.opts.Verify && entry.IsFile() {
		if err := e.verify(ctx, entry.Path, dst); err != nil {
			return e.fail(entry.Path, err)
		}
	}
	return nil
}

// CopyBatched validates that sources fit on the root holding dstDir, then
// copies every source into dstDir concurrently. Failed sources are reported
// in a BatchError; sources that succeeded stay copied.
func (e *Engine) CopyBatched(ctx context.Context, sources []string, dstDir string, inject bool) error {
	total, err := e.ValidateCapacity(ctx, sources, dstDir)
	if err != nil {
		return err
	}
	e.stats.SetTotals(int64(len(sources)), total)

	errs := eachPath(sources, func(_ int, src string) error {
		return e.Copy(ctx, src, filepath.Join(dstDir, filepath.Base(src)), inject)
	})
	return newBatchError("copy", sources, errs)
}
