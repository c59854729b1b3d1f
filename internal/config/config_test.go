package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/ferry/internal/config"
	"github.com/bamsammich/ferry/internal/vfs"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	configDir := filepath.Join(dir, "ferry")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.Queue.FSLimit)
	assert.Nil(t, cfg.Defaults.Verify)
	assert.Empty(t, cfg.Storage.Roots)
}

func TestLoad_FullConfig(t *testing.T) {
	writeConfig(t, `
[queue]
fs_limit = 8
default_limit = 2

[storage]
roots = ["/mnt/sd", "~/media"]
refresh_interval = "30s"

[conflict]
copy_suffix = "- Copy %d"
move_suffix = "[moved %d]"

[defaults]
verify = true
show_hidden = true
sort = "desc"
bwlimit = "10M"
`)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.Queue.FSLimit)
	assert.Equal(t, 8, *cfg.Queue.FSLimit)
	assert.Equal(t, []string{"/mnt/sd", "~/media"}, cfg.Storage.Roots)
	require.NotNil(t, cfg.Conflict.CopySuffix)
	assert.Equal(t, "- Copy %d", *cfg.Conflict.CopySuffix)

	home := t.TempDir()
	t.Setenv("HOME", home)
	s, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 8, s.FSLimit)
	assert.Equal(t, 2, s.DefaultLimit)
	assert.Equal(t, []string{home, "/mnt/sd", filepath.Join(home, "media")}, s.Roots)
	assert.Equal(t, 30*time.Second, s.RefreshInterval)
	assert.Equal(t, "[moved %d]", s.MoveSuffix)
	assert.True(t, s.Verify)
	assert.True(t, s.ShowHidden)
	assert.Equal(t, vfs.Descending, s.Sort)
	assert.Equal(t, int64(10*1024*1024), s.BWLimit)
}

func TestLoad_PartialConfig(t *testing.T) {
	writeConfig(t, `
[defaults]
verify = true
`)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.Defaults.Verify)
	assert.True(t, *cfg.Defaults.Verify)
	assert.Nil(t, cfg.Defaults.Sort)
	assert.Nil(t, cfg.Queue.FSLimit)
}

func TestLoad_InvalidTOML(t *testing.T) {
	writeConfig(t, `this is not [valid toml`)

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_UnknownKeys(t *testing.T) {
	writeConfig(t, `
[queue]
fs_limt = 3
`)

	_, err := config.Load()
	var unknown *config.UnknownKeysError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"queue.fs_limt"}, unknown.Keys)
}

func TestPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/ferry/config.toml", config.Path())
}

func TestPath_Fallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "ferry", "config.toml"), config.Path())
}

func TestResolve_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := config.Config{}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 30, s.FSLimit)
	assert.Equal(t, 4, s.DefaultLimit)
	assert.Equal(t, 2*time.Minute, s.RefreshInterval)
	assert.Equal(t, "(copy %d)", s.CopySuffix)
	assert.Equal(t, "(move %d)", s.MoveSuffix)
	assert.Equal(t, []string{home}, s.Roots)
	assert.Equal(t, vfs.Ascending, s.Sort)
	assert.False(t, s.Verify)
	assert.Zero(t, s.BWLimit)
}

func TestResolve_Invalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	zero := 0
	bad := "soon"
	noVerb := "(copy)"
	twoVerbs := "(%s copy %d)"
	slashed := "(copy %d)/x"
	withNUL := "(move\x00 %d)"
	sideways := "sideways"
	size := "lots"

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"fs_limit", config.Config{Queue: config.QueueConfig{FSLimit: &zero}}},
		{"default_limit", config.Config{Queue: config.QueueConfig{DefaultLimit: &zero}}},
		{"refresh_interval", config.Config{Storage: config.StorageConfig{RefreshInterval: &bad}}},
		{"copy_suffix", config.Config{Conflict: config.ConflictConfig{CopySuffix: &noVerb}}},
		{"move_suffix", config.Config{Conflict: config.ConflictConfig{MoveSuffix: &twoVerbs}}},
		{"copy_suffix", config.Config{Conflict: config.ConflictConfig{CopySuffix: &slashed}}},
		{"move_suffix", config.Config{Conflict: config.ConflictConfig{MoveSuffix: &withNUL}}},
		{"sort", config.Config{Defaults: config.DefaultsConfig{Sort: &sideways}}},
		{"bwlimit", config.Config{Defaults: config.DefaultsConfig{BWLimit: &size}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Resolve()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.name)
		})
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ferry", "config.toml")
	require.NoError(t, config.Write(path, config.Default(), false))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Queue.FSLimit)
	assert.Equal(t, 30, *cfg.Queue.FSLimit)
	require.NotNil(t, cfg.Storage.RefreshInterval)
	assert.Equal(t, "2m0s", *cfg.Storage.RefreshInterval)

	t.Setenv("HOME", t.TempDir())
	_, err = cfg.Resolve()
	require.NoError(t, err)
}

func TestWrite_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))

	err := config.Write(path, config.Default(), false)
	require.ErrorIs(t, err, config.ErrExists)

	require.NoError(t, config.Write(path, config.Default(), true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fs_limit")
}
