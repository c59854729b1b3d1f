package platform

import (
	"errors"
	"io"
	"os"
	"sync"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// copyReadWrite copies size bytes from the start of src to the start of dst
// through a pooled buffer.
func copyReadWrite(src, dst *os.File, size int64) (CopyResult, error) {
	bufp := bufPool.Get().(*[]byte) //nolint:forcetypeassert // pool only holds *[]byte
	defer bufPool.Put(bufp)
	buf := *bufp

	result := CopyResult{Method: ReadWrite}
	var offset int64
	for offset < size {
		n, err := src.ReadAt(buf[:min(int64(len(buf)), size-offset)], offset)
		if n > 0 {
			if _, werr := dst.WriteAt(buf[:n], offset); werr != nil {
				return result, werr
			}
			offset += int64(n)
			result.BytesWritten += int64(n)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, err
		}
	}
	return result, nil
}
