package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bamsammich/ferry/internal/event"
)

// splitName splits path into its directory, base name and extension. The
// extension starts at the last dot of the final segment; a leading dot
// (".bashrc") is part of the name, not an extension.
func splitName(path string) (dir, base, ext string) {
	dir, name := filepath.Split(path)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return dir, name, ""
	}
	return dir, name[:i], name[i:]
}

// candidateName returns the n-th alternative for path under template.
func candidateName(path, template string, n int) string {
	dir, base, ext := splitName(path)
	return dir + base + " " + fmt.Sprintf(template, n) + ext
}

// resolveConflict returns the first candidate for path, counting up from 1,
// that does not exist. Each step costs one gateway existence check.
func (e *Engine) resolveConflict(ctx context.Context, path, template string) (string, error) {
	for n := 1; ; n++ {
		candidate := candidateName(path, template, n)
		exists, err := e.gw.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

// destination decides where an item bound for dst actually goes. A free dst
// is used as is. A taken one fails with a ConflictError unless inject is
// set, in which case the next free suffixed name is chosen.
func (e *Engine) destination(ctx context.Context, dst string, inject bool, template string) (string, error) {
	exists, err := e.gw.Exists(ctx, dst)
	if err != nil {
		return "", err
	}
	if !exists {
		return dst, nil
	}
	if !inject {
		return "", &ConflictError{Path: dst}
	}

	resolved, err := e.resolveConflict(ctx, dst, template)
	if err != nil {
		return "", err
	}
	e.stats.AddConflictsRenamed(1)
	e.emit(event.Event{Type: event.ConflictRenamed, Path: dst, Dest: resolved})
	e.logger.Debug("destination renamed", "path", dst, "to", resolved)
	return resolved, nil
}

// land places an item at the destination chosen for dst. place must fail
// with fs.ErrExist instead of replacing an existing item; when it does,
// another writer took the name after it was checked, and the name is chosen
// again (or the item fails with a ConflictError when inject is off).
func (e *Engine) land(ctx context.Context, dst string, inject bool, template string, place func(target string) error) (string, error) {
	for {
		target, err := e.destination(ctx, dst, inject, template)
		if err != nil {
			return "", err
		}
		err = place(target)
		if err == nil {
			return target, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
		if !inject {
			return "", &ConflictError{Path: target}
		}
		e.logger.Debug("destination taken while landing, choosing again", "path", target)
	}
}
