//go:build darwin

package vfs

import (
	"os"
	"syscall"
	"time"
)

// fillStatFields extracts platform-specific fields from the raw stat result.
func fillStatFields(info os.FileInfo, entry *Entry) {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		entry.ChangeTime = time.Unix(stat.Ctimespec.Sec, stat.Ctimespec.Nsec).UTC()
	}
}
