// Package platform holds the OS-specific data paths used to copy file
// contents: kernel offload where the host supports it, pread/pwrite
// everywhere else.
package platform

import "os"

// CopyMethod identifies which strategy moved the bytes.
type CopyMethod int

const (
	ReadWrite     CopyMethod = iota
	CopyFileRange            // Linux copy_file_range(2)
	Sendfile                 // Linux sendfile(2)
)

func (m CopyMethod) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case CopyFileRange:
		return "copy_file_range"
	case Sendfile:
		return "sendfile"
	default:
		return "unknown"
	}
}

// CopyResult reports the outcome of a copy.
type CopyResult struct {
	BytesWritten int64
	Method       CopyMethod
}

// CopyParams describes a whole-file copy from SrcPath into the already
// opened Dst, which is written from offset zero.
type CopyParams struct {
	Dst     *os.File
	SrcPath string
	Size    int64
}
