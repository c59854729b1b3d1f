// Package gateway routes every filesystem primitive through one shared
// bounded queue, so the number of OS filesystem calls in flight is capped
// no matter how many tree operations issue them.
package gateway

import (
	"context"

	"github.com/bamsammich/ferry/internal/queue"
	"github.com/bamsammich/ferry/internal/vfs"
)

// Gateway is safe for concurrent use.
type Gateway struct {
	fs vfs.FS
	q  *queue.Queue
}

// New returns a Gateway that runs fs primitives on q. A nil q gets a fresh
// queue with queue.FSLimit slots.
func New(fs vfs.FS, q *queue.Queue) *Gateway {
	if q == nil {
		q = queue.New(queue.FSLimit)
	}
	return &Gateway{fs: fs, q: q}
}

// Queue returns the queue shared by every primitive.
func (g *Gateway) Queue() *queue.Queue { return g.q }

// Every method below blocks until its primitive has run or ctx is done. A
// done ctx only abandons the wait; the primitive still runs once started.

func (g *Gateway) Exists(ctx context.Context, path string) (bool, error) {
	ok, err := queue.Do(ctx, g.q, func() (bool, error) { return g.fs.Exists(path) })
	return ok, wrap(OpExists, path, "", err)
}

func (g *Gateway) Stat(ctx context.Context, path string) (vfs.Entry, error) {
	e, err := queue.Do(ctx, g.q, func() (vfs.Entry, error) { return g.fs.Stat(path) })
	return e, wrap(OpStat, path, "", err)
}

// MakeDirectory creates path alone and fails if anything is already there.
func (g *Gateway) MakeDirectory(ctx context.Context, path string) error {
	return g.do(ctx, OpMkdir, path, "", func() error { return g.fs.Mkdir(path) })
}

// MakeDirectoryAll creates path and any missing parents.
func (g *Gateway) MakeDirectoryAll(ctx context.Context, path string) error {
	return g.do(ctx, OpMkdir, path, "", func() error { return g.fs.MkdirAll(path) })
}

func (g *Gateway) ListDirectory(ctx context.Context, path string) ([]vfs.Entry, error) {
	es, err := queue.Do(ctx, g.q, func() ([]vfs.Entry, error) { return g.fs.ReadDir(path) })
	return es, wrap(OpReadDir, path, "", err)
}

func (g *Gateway) CopyFile(ctx context.Context, src, dst string) error {
	return g.do(ctx, OpCopy, src, dst, func() error { return g.fs.CopyFile(src, dst) })
}

func (g *Gateway) MoveFile(ctx context.Context, src, dst string) error {
	return g.do(ctx, OpMove, src, dst, func() error { return g.fs.MoveFile(src, dst) })
}

func (g *Gateway) Delete(ctx context.Context, path string) error {
	return g.do(ctx, OpDelete, path, "", func() error { return g.fs.Remove(path) })
}

func (g *Gateway) Hash(ctx context.Context, path string) (string, error) {
	sum, err := queue.Do(ctx, g.q, func() (string, error) { return g.fs.Hash(path) })
	return sum, wrap(OpHash, path, "", err)
}

func (g *Gateway) do(ctx context.Context, op Op, path, dst string, fn func() error) error {
	_, err := queue.Do(ctx, g.q, func() (struct{}, error) { return struct{}{}, fn() })
	return wrap(op, path, dst, err)
}
