// Package vfs defines the filesystem entry model and the primitive
// operations the engine performs on a filesystem, plus the local
// implementation of those primitives.
package vfs

import (
	"os"
	"sort"
	"strings"
	"time"
)

// Entry is an immutable snapshot of a filesystem object taken by Stat or
// ReadDir. It is not kept in sync with the filesystem afterwards.
type Entry struct {
	ModTime    time.Time // UTC
	ChangeTime time.Time // UTC; zero if the platform does not report it
	LinkTarget string
	Path       string
	Name       string
	Size       int64
	Mode       os.FileMode
	IsDir      bool
}

// IsFile reports whether the entry is a regular file.
func (e Entry) IsFile() bool { return e.Mode.IsRegular() }

// IsSymlink reports whether the entry is a symbolic link.
func (e Entry) IsSymlink() bool { return e.Mode&os.ModeSymlink != 0 }

// Hidden reports whether the entry follows the Unix dot-file convention.
func (e Entry) Hidden() bool { return IsHiddenName(e.Name) }

// IsHiddenName reports whether name is a dot-file. "." and ".." are not hidden.
func IsHiddenName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// SortOrder selects the modification-time direction for SortEntries.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// ParseSortOrder maps "asc"/"desc" to a SortOrder. Anything else is Ascending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, "desc") {
		return Descending
	}
	return Ascending
}

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// SortEntries orders entries in place: directories first, then by
// modification time in the given direction, then by name.
func SortEntries(entries []Entry, order SortOrder) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		if !a.ModTime.Equal(b.ModTime) {
			if order == Descending {
				return a.ModTime.After(b.ModTime)
			}
			return a.ModTime.Before(b.ModTime)
		}
		return a.Name < b.Name
	})
}
