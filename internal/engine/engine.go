// Package engine implements recursive copy, move and delete on top of the
// filesystem gateway, with conflict-avoiding destination names and
// pre-flight capacity checks for batches.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bamsammich/ferry/internal/event"
	"github.com/bamsammich/ferry/internal/gateway"
	"github.com/bamsammich/ferry/internal/stats"
	"github.com/bamsammich/ferry/internal/storage"
	"github.com/bamsammich/ferry/internal/vfs"
)

// Default conflict suffix templates. Each takes exactly one %d.
const (
	DefaultCopySuffix = "(copy %d)"
	DefaultMoveSuffix = "(move %d)"
)

// RootResolver finds the storage root holding a path.
type RootResolver interface {
	RootFor(path string) (storage.Root, bool)
}

// Options configures an Engine.
type Options struct {
	Events     chan<- event.Event
	Stats      stats.Writer
	Logger     *slog.Logger
	CopySuffix string
	MoveSuffix string
	// Verify compares BLAKE3 digests of every copied regular file with
	// its source.
	Verify bool
}

// Engine runs tree operations. All filesystem access goes through the
// gateway, so every operation shares its concurrency bound.
type Engine struct {
	gw     *gateway.Gateway
	roots  RootResolver
	events chan<- event.Event
	stats  stats.Writer
	logger *slog.Logger
	opts   Options
}

// New creates an Engine. roots may be nil, in which case capacity
// validation always passes.
func New(gw *gateway.Gateway, roots RootResolver, opts Options) *Engine {
	if opts.CopySuffix == "" {
		opts.CopySuffix = DefaultCopySuffix
	}
	if opts.MoveSuffix == "" {
		opts.MoveSuffix = DefaultMoveSuffix
	}
	e := &Engine{
		gw:     gw,
		roots:  roots,
		events: opts.Events,
		stats:  opts.Stats,
		logger: opts.Logger,
		opts:   opts,
	}
	if e.stats == nil {
		e.stats = stats.NewCollector()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Gateway returns the gateway the engine runs on.
func (e *Engine) Gateway() *gateway.Gateway { return e.gw }

func (e *Engine) emit(ev event.Event) {
	event.Emit(e.events, ev)
}

// fail records a failure for path and passes err through.
func (e *Engine) fail(path string, err error) error {
	e.stats.AddFailures(1)
	e.emit(event.Event{Type: event.ItemFailed, Path: path, Error: err})
	e.logger.Debug("item failed", "path", path, "error", err)
	return err
}

// forEach runs fn for every entry concurrently and waits for all of them.
// The gateway, not this fan-out, bounds how many filesystem calls run.
func forEach(entries []vfs.Entry, fn func(vfs.Entry) error) error {
	if len(entries) == 0 {
		return nil
	}
	errs := make([]error, len(entries))
	var wg sync.WaitGroup
	for i, ent := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fn(ent)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// eachPath is forEach for plain paths.
func eachPath(paths []string, fn func(int, string) error) []error {
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fn(i, p)
		}()
	}
	wg.Wait()
	return errs
}

// checkContext returns ctx's error once it is done. Work already handed to
// the gateway keeps running; this only stops new work being issued.
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// ParentDir returns the directory containing path.
func ParentDir(path string) string {
	return filepath.Dir(filepath.Clean(path))
}

// checkNesting rejects a destination inside the source's own subtree, which
// would otherwise recurse into the items it is creating.
func checkNesting(src, dst string) error {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	if strings.HasPrefix(dst, src+string(filepath.Separator)) {
		return ItemError{Path: dst, Err: ErrIntoItself}
	}
	return nil
}
