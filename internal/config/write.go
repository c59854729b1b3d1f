package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bamsammich/ferry/internal/engine"
	"github.com/bamsammich/ferry/internal/queue"
	"github.com/bamsammich/ferry/internal/storage"
)

// ErrExists is returned by Write when the file is already present and
// overwrite was not requested.
var ErrExists = errors.New("config file already exists")

// Default returns a Config with every field set to its built-in default,
// suitable as a starting point for editing.
func Default() Config {
	fsLimit, defLimit := queue.FSLimit, queue.DefaultLimit
	interval := storage.DefaultRefreshInterval.String()
	copySuffix, moveSuffix := engine.DefaultCopySuffix, engine.DefaultMoveSuffix
	verify, hidden := false, false
	sort := "asc"
	return Config{
		Queue:    QueueConfig{FSLimit: &fsLimit, DefaultLimit: &defLimit},
		Storage:  StorageConfig{RefreshInterval: &interval, Roots: []string{}},
		Conflict: ConflictConfig{CopySuffix: &copySuffix, MoveSuffix: &moveSuffix},
		Defaults: DefaultsConfig{Verify: &verify, ShowHidden: &hidden, Sort: &sort},
	}
}

// Write encodes cfg as TOML to path, creating the parent directory. An
// existing file is only replaced when overwrite is set.
func Write(path string, cfg Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}
