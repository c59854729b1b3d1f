// Package config loads the optional ferry configuration file and resolves
// it, together with built-in defaults, into the settings the engine runs
// with.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the optional ferry configuration file. Pointer fields
// are nil when the file leaves them unset.
type Config struct {
	Queue    QueueConfig    `toml:"queue"`
	Storage  StorageConfig  `toml:"storage"`
	Conflict ConflictConfig `toml:"conflict"`
	Defaults DefaultsConfig `toml:"defaults"`
}

// QueueConfig sizes the bounded queues.
type QueueConfig struct {
	FSLimit      *int `toml:"fs_limit"`
	DefaultLimit *int `toml:"default_limit"`
}

// StorageConfig lists storage roots beyond the home directory.
type StorageConfig struct {
	RefreshInterval *string  `toml:"refresh_interval"`
	Roots           []string `toml:"roots"`
}

// ConflictConfig holds the rename templates used on name collisions.
type ConflictConfig struct {
	CopySuffix *string `toml:"copy_suffix"`
	MoveSuffix *string `toml:"move_suffix"`
}

// DefaultsConfig holds persistent flag defaults.
type DefaultsConfig struct {
	Verify     *bool   `toml:"verify"`
	ShowHidden *bool   `toml:"show_hidden"`
	Sort       *string `toml:"sort"`
	BWLimit    *string `toml:"bwlimit"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "ferry", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path, returning a zero Config if it
// does not exist.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, &UnknownKeysError{Path: path, Keys: keyStrings(undecoded)}
	}
	return cfg, nil
}

// UnknownKeysError reports config keys ferry does not recognise, which are
// almost always typos.
type UnknownKeysError struct {
	Path string
	Keys []string
}

func (e *UnknownKeysError) Error() string {
	msg := e.Path + ": unknown config keys:"
	for _, k := range e.Keys {
		msg += " " + k
	}
	return msg
}

func keyStrings(keys []toml.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}
