package vfs

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"

	"github.com/bamsammich/ferry/internal/platform"
)

// Compile-time interface check.
var _ FS = (*Local)(nil)

// LocalOptions configures a Local filesystem.
type LocalOptions struct {
	// Limiter caps aggregate copy throughput in bytes/sec. Nil means
	// unlimited, in which case kernel copy offload is used.
	Limiter *rate.Limiter
}

// Local implements FS on the host filesystem.
type Local struct {
	limiter *rate.Limiter
}

// NewLocal creates a Local filesystem.
func NewLocal(opts LocalOptions) *Local {
	return &Local{limiter: opts.Limiter}
}

func (*Local) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (*Local) Stat(path string) (Entry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Entry{}, err
	}
	return entryFromInfo(path, info), nil
}

func (*Local) Mkdir(path string) error {
	return os.Mkdir(path, 0o755)
}

func (*Local) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (*Local) ReadDir(path string) ([]Entry, error) {
	dirents, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	result := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		childPath := filepath.Join(path, d.Name())
		info, err := os.Lstat(childPath)
		if err != nil {
			continue // vanished between readdir and lstat
		}
		result = append(result, entryFromInfo(childPath, info))
	}
	return result, nil
}

// CopyFile writes src into a uniquely named temp file beside dst and renames
// it into place, so a failed copy never leaves a truncated dst behind. The
// final rename refuses to replace dst. Symlinks are recreated rather than
// followed.
func (l *Local) CopyFile(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: "copy", Path: src, Err: unix.EISDIR}
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dst)
	}

	dir := filepath.Dir(dst)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.ferry-tmp", filepath.Base(dst), uuid.New().String()[:8]))

	RegisterTmp(tmpPath)
	defer func() {
		DeregisterTmp(tmpPath)
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if err := l.copyData(src, info.Size(), tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("copy data %s: %w", src, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return renameNoReplace(tmpPath, dst)
}

func (l *Local) copyData(src string, size int64, dst *os.File) error {
	if l.limiter != nil {
		in, err := os.Open(src)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(dst, newRateLimitedReader(context.Background(), in, l.limiter))
		return err
	}
	res, err := platform.CopyFile(platform.CopyParams{
		SrcPath: src,
		Dst:     dst,
		Size:    size,
	})
	if err != nil {
		return err
	}
	slog.Debug("copied file data", "src", src, "bytes", res.BytesWritten, "method", res.Method)
	return nil
}

// MoveFile renames src to dst without replacing dst, falling back to copy
// and remove when the two paths are on different devices.
func (l *Local) MoveFile(src, dst string) error {
	err := renameNoReplace(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, unix.EXDEV) {
		return err
	}
	if err := l.CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func (*Local) Remove(path string) error {
	return os.Remove(path)
}

func (*Local) Hash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func entryFromInfo(path string, info os.FileInfo) Entry {
	entry := Entry{
		Path:    path,
		Name:    info.Name(),
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime().UTC(),
		IsDir:   info.IsDir(),
	}
	if info.Mode()&os.ModeSymlink != 0 {
		if target, err := os.Readlink(path); err == nil {
			entry.LinkTarget = target
		}
	}
	fillStatFields(info, &entry)
	return entry
}
