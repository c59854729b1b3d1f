package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/bamsammich/ferry/internal/vfs"
)

// ValidateCapacity sums the sizes of sources, counting directory contents,
// and fails with a CapacityError if the total exceeds the free space last
// recorded for the root holding dst. It returns the total in bytes. The
// check is advisory: free space can change before or during the copy. A
// dst outside every known root passes.
func (e *Engine) ValidateCapacity(ctx context.Context, sources []string, dst string) (int64, error) {
	var total atomic.Int64
	errs := eachPath(sources, func(_ int, src string) error {
		entry, err := e.gw.Stat(ctx, src)
		if err != nil {
			return err
		}
		size, err := e.treeSize(ctx, entry)
		total.Add(size)
		return err
	})
	if err := errors.Join(errs...); err != nil {
		return 0, fmt.Errorf("sizing sources: %w", err)
	}

	required := total.Load()
	if e.roots == nil {
		return required, nil
	}
	root, ok := e.roots.RootFor(dst)
	if !ok {
		e.logger.Debug("no storage root for destination, skipping capacity check", "dst", dst)
		return required, nil
	}
	if required > root.FreeBytes {
		return required, &CapacityError{
			Path:           dst,
			Root:           root.Path,
			RequiredBytes:  required,
			AvailableBytes: root.FreeBytes,
		}
	}
	return required, nil
}

// treeSize returns the size of a file, or the total size of the files below
// a directory.
func (e *Engine) treeSize(ctx context.Context, entry vfs.Entry) (int64, error) {
	if !entry.IsDir {
		return entry.Size, nil
	}
	children, err := e.gw.ListDirectory(ctx, entry.Path)
	if err != nil {
		return 0, err
	}
	var total atomic.Int64
	err = forEach(children, func(child vfs.Entry) error {
		size, err := e.treeSize(ctx, child)
		total.Add(size)
		return err
	})
	return total.Load(), err
}
