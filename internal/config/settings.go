package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bamsammich/ferry/internal/engine"
	"github.com/bamsammich/ferry/internal/filter"
	"github.com/bamsammich/ferry/internal/queue"
	"github.com/bamsammich/ferry/internal/storage"
	"github.com/bamsammich/ferry/internal/vfs"
)

// Settings is a fully defaulted, validated configuration.
type Settings struct {
	Roots           []string // primary root first
	CopySuffix      string
	MoveSuffix      string
	FSLimit         int
	DefaultLimit    int
	RefreshInterval time.Duration
	BWLimit         int64 // bytes/sec; 0 is unlimited
	Sort            vfs.SortOrder
	Verify          bool
	ShowHidden      bool
}

// Resolve applies built-in defaults to every unset field and validates the
// result. The home directory is always the primary storage root.
func (c Config) Resolve() (Settings, error) {
	s := Settings{
		FSLimit:         queue.FSLimit,
		DefaultLimit:    queue.DefaultLimit,
		RefreshInterval: storage.DefaultRefreshInterval,
		CopySuffix:      engine.DefaultCopySuffix,
		MoveSuffix:      engine.DefaultMoveSuffix,
	}

	if v := c.Queue.FSLimit; v != nil {
		if *v < 1 {
			return Settings{}, fmt.Errorf("queue.fs_limit must be at least 1, got %d", *v)
		}
		s.FSLimit = *v
	}
	if v := c.Queue.DefaultLimit; v != nil {
		if *v < 1 {
			return Settings{}, fmt.Errorf("queue.default_limit must be at least 1, got %d", *v)
		}
		s.DefaultLimit = *v
	}

	if v := c.Storage.RefreshInterval; v != nil {
		d, err := time.ParseDuration(*v)
		if err != nil {
			return Settings{}, fmt.Errorf("storage.refresh_interval: %w", err)
		}
		if d <= 0 {
			return Settings{}, fmt.Errorf("storage.refresh_interval must be positive, got %s", d)
		}
		s.RefreshInterval = d
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Settings{}, fmt.Errorf("locating home directory: %w", err)
	}
	s.Roots = append(s.Roots, home)
	for _, r := range c.Storage.Roots {
		s.Roots = append(s.Roots, expandHome(r, home))
	}

	if v := c.Conflict.CopySuffix; v != nil {
		if err := checkSuffix(*v); err != nil {
			return Settings{}, fmt.Errorf("conflict.copy_suffix: %w", err)
		}
		s.CopySuffix = *v
	}
	if v := c.Conflict.MoveSuffix; v != nil {
		if err := checkSuffix(*v); err != nil {
			return Settings{}, fmt.Errorf("conflict.move_suffix: %w", err)
		}
		s.MoveSuffix = *v
	}

	if v := c.Defaults.Verify; v != nil {
		s.Verify = *v
	}
	if v := c.Defaults.ShowHidden; v != nil {
		s.ShowHidden = *v
	}
	if v := c.Defaults.Sort; v != nil {
		switch strings.ToLower(*v) {
		case "asc", "desc":
			s.Sort = vfs.ParseSortOrder(*v)
		default:
			return Settings{}, fmt.Errorf("defaults.sort must be \"asc\" or \"desc\", got %q", *v)
		}
	}
	if v := c.Defaults.BWLimit; v != nil {
		n, err := filter.ParseSize(*v)
		if err != nil {
			return Settings{}, fmt.Errorf("defaults.bwlimit: %w", err)
		}
		s.BWLimit = n
	}
	return s, nil
}

// checkSuffix requires exactly one %d and no other verbs, so the counter
// always appears and Sprintf cannot misfire. The result is spliced into a
// file name, so separators and NUL are rejected.
func checkSuffix(s string) error {
	if strings.Count(strings.ReplaceAll(s, "%%", ""), "%") != 1 || !strings.Contains(s, "%d") {
		return fmt.Errorf("template %q must contain exactly one %%d", s)
	}
	if strings.ContainsAny(s, "/\x00"+string(filepath.Separator)) {
		return fmt.Errorf("template %q must not contain a path separator or NUL", s)
	}
	return nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
