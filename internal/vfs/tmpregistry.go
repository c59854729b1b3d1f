package vfs

import (
	"os"
	"sync"
)

// Temp files created by in-flight local copies. CleanupTmpFiles removes any
// that are still present, e.g. when the process is interrupted mid-copy.
var tmpFiles = struct {
	mu    sync.Mutex
	paths map[string]struct{}
}{paths: make(map[string]struct{})}

// RegisterTmp records a temp file path.
func RegisterTmp(path string) {
	tmpFiles.mu.Lock()
	defer tmpFiles.mu.Unlock()
	tmpFiles.paths[path] = struct{}{}
}

// DeregisterTmp forgets a temp file path.
func DeregisterTmp(path string) {
	tmpFiles.mu.Lock()
	defer tmpFiles.mu.Unlock()
	delete(tmpFiles.paths, path)
}

// PendingTmpFiles returns the number of registered temp files.
func PendingTmpFiles() int {
	tmpFiles.mu.Lock()
	defer tmpFiles.mu.Unlock()
	return len(tmpFiles.paths)
}

// CleanupTmpFiles removes every registered temp file and clears the registry.
func CleanupTmpFiles() {
	tmpFiles.mu.Lock()
	paths := make([]string, 0, len(tmpFiles.paths))
	for p := range tmpFiles.paths {
		paths = append(paths, p)
	}
	clear(tmpFiles.paths)
	tmpFiles.mu.Unlock()

	for _, p := range paths {
		_ = os.Remove(p)
	}
}
