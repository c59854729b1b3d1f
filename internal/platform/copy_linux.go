//go:build linux

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// CopyFile tries copy_file_range, then sendfile, then read/write. A strategy
// is abandoned only when it fails before moving any bytes with an error that
// means "not supported here".
func CopyFile(params CopyParams) (CopyResult, error) {
	if params.Size <= 0 {
		return CopyResult{Method: ReadWrite}, nil
	}
	preallocate(params.Dst, params.Size)

	src, err := os.Open(params.SrcPath)
	if err != nil {
		return CopyResult{}, err
	}
	defer src.Close()

	srcFd := int(src.Fd())
	dstFd := int(params.Dst.Fd())

	var roff, woff int64
	result, err := kernelCopy(CopyFileRange, params.Size, func(n int) (int, error) {
		return unix.CopyFileRange(srcFd, &roff, dstFd, &woff, n, 0)
	})
	if err == nil || !isFallbackErr(err) || result.BytesWritten > 0 {
		return result, err
	}

	var off int64
	result, err = kernelCopy(Sendfile, params.Size, func(n int) (int, error) {
		return unix.Sendfile(dstFd, srcFd, &off, n)
	})
	if err == nil || !isFallbackErr(err) || result.BytesWritten > 0 {
		return result, err
	}

	return copyReadWrite(src, params.Dst, params.Size)
}

// kernelCopy drives a syscall that advances its own offsets until size bytes
// are copied or the source runs dry.
func kernelCopy(method CopyMethod, size int64, step func(n int) (int, error)) (CopyResult, error) {
	result := CopyResult{Method: method}
	for remaining := size; remaining > 0; {
		n, err := step(int(min(remaining, 1<<30)))
		if err != nil {
			return result, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		result.BytesWritten += int64(n)
	}
	return result, nil
}

// preallocate reserves space for the destination. fallocate is advisory and
// unsupported on some filesystems, so failures are ignored.
//
//nolint:gosec // G115: fd values are small non-negative integers
func preallocate(fd *os.File, size int64) {
	//nolint:errcheck // advisory
	unix.Fallocate(int(fd.Fd()), 0, 0, size)
}

// isFallbackErr reports whether err means the strategy is unavailable for
// this pair of files rather than that the copy itself failed.
func isFallbackErr(err error) bool {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	case unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.ENOTSUP:
		return true
	}
	return false
}
