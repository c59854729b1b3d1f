// Package storage tracks the mounted volumes the engine copies into: their
// capacity, free space and display names.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bamsammich/ferry/internal/gateway"
	"github.com/bamsammich/ferry/internal/queue"
	"github.com/bamsammich/ferry/internal/vfs"
)

// DefaultRefreshInterval is how often Run rebuilds the root list.
const DefaultRefreshInterval = 2 * time.Minute

// Root is a storage volume as of the last refresh.
type Root struct {
	vfs.Entry
	DisplayName string
	IsPrimary   bool
	FreeBytes   int64
	TotalBytes  int64
}

// UsedFraction returns the share of the volume in use, in [0, 1].
func (r Root) UsedFraction() float64 {
	if r.TotalBytes <= 0 {
		return 0
	}
	return 1 - float64(r.FreeBytes)/float64(r.TotalBytes)
}

// Options configures a Registry.
type Options struct {
	// Prober defaults to StatfsProber.
	Prober Prober
	Logger *slog.Logger
	// OnRefresh, if set, is called with the new list after every
	// successful refresh.
	OnRefresh func([]Root)
}

// Registry holds the current list of storage roots. The list is replaced
// wholesale by each refresh and never patched in place.
type Registry struct {
	gw        *gateway.Gateway
	prober    Prober
	logger    *slog.Logger
	onRefresh func([]Root)
	paths     []string // primary first

	mu        sync.RWMutex
	roots     []Root
	refreshed time.Time
}

// NewRegistry creates a registry for the given root paths. The first path is
// the primary device. Roots are empty until the first Refresh.
func NewRegistry(gw *gateway.Gateway, paths []string, opts Options) *Registry {
	r := &Registry{
		gw:        gw,
		prober:    opts.Prober,
		logger:    opts.Logger,
		onRefresh: opts.OnRefresh,
	}
	if r.prober == nil {
		r.prober = StatfsProber{}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	seen := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			r.paths = append(r.paths, p)
		}
	}
	return r
}

// Refresh stats and probes every configured root and swaps in the new list.
// Roots that no longer exist are left out. Any other failure aborts the
// refresh and keeps the previous list.
func (r *Registry) Refresh(ctx context.Context) ([]Root, error) {
	roots := make([]Root, 0, len(r.paths))
	for i, p := range r.paths {
		entry, err := r.gw.Stat(ctx, p)
		if err != nil {
			if gateway.IsNotFound(err) {
				r.logger.Warn("storage root missing", "path", p)
				continue
			}
			return r.Roots(), fmt.Errorf("refreshing storage roots: %w", err)
		}
		// statfs holds the volume like any other primitive, so it shares
		// the gateway's slots.
		c, err := queue.Do(ctx, r.gw.Queue(), func() (capacity, error) {
			free, total, err := r.prober.Probe(p)
			return capacity{free: free, total: total}, err
		})
		if err != nil {
			return r.Roots(), fmt.Errorf("probing storage root %s: %w", p, err)
		}
		roots = append(roots, Root{
			Entry:       entry,
			DisplayName: displayName(p),
			IsPrimary:   i == 0,
			FreeBytes:   c.free,
			TotalBytes:  c.total,
		})
	}

	r.mu.Lock()
	r.roots = roots
	r.refreshed = time.Now()
	r.mu.Unlock()

	r.logger.Debug("storage roots refreshed", "count", len(roots))
	if r.onRefresh != nil {
		r.onRefresh(clone(roots))
	}
	return clone(roots), nil
}

// Roots returns a copy of the current list.
func (r *Registry) Roots() []Root {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.roots)
}

// LastRefresh returns when the list was last rebuilt.
func (r *Registry) LastRefresh() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.refreshed
}

// RootFor returns the first root containing path.
func (r *Registry) RootFor(path string) (Root, bool) {
	path = filepath.Clean(path)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, root := range r.roots {
		if within(root.Path, path) {
			return root, true
		}
	}
	return Root{}, false
}

// Relative returns path relative to the root containing it, or "." for the
// root itself. ok is false when no root contains path.
func (r *Registry) Relative(path string) (root Root, rel string, ok bool) {
	root, ok = r.RootFor(path)
	if !ok {
		return Root{}, path, false
	}
	rel = strings.TrimPrefix(strings.TrimPrefix(filepath.Clean(path), root.Path), string(filepath.Separator))
	if rel == "" {
		rel = "."
	}
	return root, rel, true
}

// Run refreshes immediately and then every interval until ctx is done.
// Failures are logged and the previous list is kept.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	r.refreshLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshLogged(ctx)
		}
	}
}

func (r *Registry) refreshLogged(ctx context.Context) {
	if _, err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
		r.logger.Warn("storage root refresh failed, keeping previous roots", "error", err)
	}
}

type capacity struct {
	free, total int64
}

// within reports whether path is root or lies beneath it, comparing whole
// path segments so /mnt/sd does not contain /mnt/sdcard.
func within(root, path string) bool {
	if root == path {
		return true
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(path, root)
}

func displayName(path string) string {
	name := filepath.Base(path)
	if name == string(filepath.Separator) || name == "." {
		return path
	}
	return name
}

func clone(roots []Root) []Root {
	if roots == nil {
		return nil
	}
	return append([]Root(nil), roots...)
}
