//go:build !linux

package platform

import "os"

// CopyFile copies with pread/pwrite on hosts without a kernel offload path.
func CopyFile(params CopyParams) (CopyResult, error) {
	if params.Size <= 0 {
		return CopyResult{Method: ReadWrite}, nil
	}
	src, err := os.Open(params.SrcPath)
	if err != nil {
		return CopyResult{}, err
	}
	defer src.Close()
	return copyReadWrite(src, params.Dst, params.Size)
}
