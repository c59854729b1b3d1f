// Package manager is the operation surface collaborators call: listing,
// stat, directory creation, batched copy/move/delete, rename, capacity
// validation and storage root refresh, all composed on one gateway.
package manager

import (
	"context"
	"log/slog"

	"github.com/bamsammich/ferry/internal/config"
	"github.com/bamsammich/ferry/internal/engine"
	"github.com/bamsammich/ferry/internal/event"
	"github.com/bamsammich/ferry/internal/filter"
	"github.com/bamsammich/ferry/internal/gateway"
	"github.com/bamsammich/ferry/internal/queue"
	"github.com/bamsammich/ferry/internal/stats"
	"github.com/bamsammich/ferry/internal/storage"
	"github.com/bamsammich/ferry/internal/vfs"
)

// Options configures a Manager. Only Settings is required.
type Options struct {
	// FS defaults to the local filesystem, rate limited by
	// Settings.BWLimit.
	FS        vfs.FS
	Prober    storage.Prober
	Events    chan<- event.Event
	Stats     stats.Writer
	Logger    *slog.Logger
	OnRefresh func([]storage.Root)
	Settings  config.Settings
}

// Manager is safe for concurrent use.
type Manager struct {
	gw       *gateway.Gateway
	eng      *engine.Engine
	roots    *storage.Registry
	general  *queue.Queue
	logger   *slog.Logger
	settings config.Settings
}

// New wires a gateway with Settings.FSLimit slots, the storage registry and
// the engine.
func New(opts Options) *Manager {
	s := opts.Settings
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsys := opts.FS
	if fsys == nil {
		local := vfs.LocalOptions{}
		if s.BWLimit > 0 {
			local.Limiter = vfs.NewBWLimiter(s.BWLimit)
		}
		fsys = vfs.NewLocal(local)
	}

	gw := gateway.New(fsys, queue.New(s.FSLimit))
	roots := storage.NewRegistry(gw, s.Roots, storage.Options{
		Prober:    opts.Prober,
		Logger:    logger,
		OnRefresh: opts.OnRefresh,
	})
	eng := engine.New(gw, roots, engine.Options{
		CopySuffix: s.CopySuffix,
		MoveSuffix: s.MoveSuffix,
		Verify:     s.Verify,
		Events:     opts.Events,
		Stats:      opts.Stats,
		Logger:     logger,
	})

	return &Manager{
		gw:       gw,
		eng:      eng,
		roots:    roots,
		general:  queue.New(s.DefaultLimit),
		logger:   logger,
		settings: s,
	}
}

// Gateway returns the shared filesystem gateway.
func (m *Manager) Gateway() *gateway.Gateway { return m.gw }

// Engine returns the tree operation engine.
func (m *Manager) Engine() *engine.Engine { return m.eng }

// Roots returns the storage root registry.
func (m *Manager) Roots() *storage.Registry { return m.roots }

// Settings returns the settings the manager was built with.
func (m *Manager) Settings() config.Settings { return m.settings }

// ListOptions controls List.
type ListOptions struct {
	Filter     *filter.Chain
	Sort       vfs.SortOrder
	ShowHidden bool
}

// List returns the children of path: directories first, then by
// modification time in opts.Sort order. Dot-files are dropped unless
// opts.ShowHidden is set; opts.Filter rules match against child names.
func (m *Manager) List(ctx context.Context, path string, opts ListOptions) ([]vfs.Entry, error) {
	entries, err := m.gw.ListDirectory(ctx, path)
	if err != nil {
		return nil, err
	}
	kept := entries[:0]
	for _, e := range entries {
		if !opts.ShowHidden && e.Hidden() {
			continue
		}
		if opts.Filter != nil && !opts.Filter.Match(e) {
			continue
		}
		kept = append(kept, e)
	}
	vfs.SortEntries(kept, opts.Sort)
	return kept, nil
}

// Stat returns a snapshot of path.
func (m *Manager) Stat(ctx context.Context, path string) (vfs.Entry, error) {
	return m.gw.Stat(ctx, path)
}

// CreateDirectory creates path and any missing parents.
func (m *Manager) CreateDirectory(ctx context.Context, path string) error {
	return m.gw.MakeDirectoryAll(ctx, path)
}

// Copy validates capacity and copies every source into destination.
func (m *Manager) Copy(ctx context.Context, sources []string, destination string, inject bool) error {
	if err := m.ensureRoots(ctx); err != nil {
		return err
	}
	return m.eng.CopyBatched(ctx, sources, destination, inject)
}

// Move moves every source into destination.
func (m *Manager) Move(ctx context.Context, sources []string, destination string, inject bool) error {
	return m.eng.MoveBatched(ctx, sources, destination, inject)
}

// Rename gives item a new name in the same directory.
func (m *Manager) Rename(ctx context.Context, item vfs.Entry, newName string) error {
	return m.eng.Rename(ctx, item, newName)
}

// Delete removes every item without recursing into directories.
func (m *Manager) Delete(ctx context.Context, items []vfs.Entry) error {
	return m.eng.DeleteBatched(ctx, paths(items))
}

// DeleteTree removes every item, including directory contents.
func (m *Manager) DeleteTree(ctx context.Context, items []vfs.Entry) error {
	return m.eng.DeleteTreeBatched(ctx, paths(items))
}

// ValidateCapacity fails with engine.ErrCapacity when sources would not fit
// on the root holding destination.
func (m *Manager) ValidateCapacity(ctx context.Context, sources []string, destination string) error {
	if err := m.ensureRoots(ctx); err != nil {
		return err
	}
	_, err := m.eng.ValidateCapacity(ctx, sources, destination)
	return err
}

// RefreshStorageRoots rebuilds the storage root list.
func (m *Manager) RefreshStorageRoots(ctx context.Context) ([]storage.Root, error) {
	return m.roots.Refresh(ctx)
}

// ensureRoots loads roots on first use so capacity checks never run
// against an empty registry.
func (m *Manager) ensureRoots(ctx context.Context) error {
	if !m.roots.LastRefresh().IsZero() {
		return nil
	}
	_, err := m.roots.Refresh(ctx)
	return err
}

func paths(items []vfs.Entry) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Path
	}
	return out
}
