package platform

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDst(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestCopyFileBasic(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	data := []byte("hello, ferry!")
	require.NoError(t, os.WriteFile(src, data, 0o644))

	result, err := CopyFile(CopyParams{SrcPath: src, Dst: openDst(t, dst), Size: int64(len(data))})
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), result.BytesWritten)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCopyFileLarge(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	// Larger than the read/write buffer.
	size := 4*bufferSize + 17
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(src, data, 0o644))

	result, err := CopyFile(CopyParams{SrcPath: src, Dst: openDst(t, dst), Size: int64(size)})
	require.NoError(t, err)
	assert.Equal(t, int64(size), result.BytesWritten)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCopyFileEmpty(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(src, nil, 0o644))

	result, err := CopyFile(CopyParams{SrcPath: src, Dst: openDst(t, filepath.Join(dir, "dst"))})
	require.NoError(t, err)
	assert.Zero(t, result.BytesWritten)
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := CopyFile(CopyParams{
		SrcPath: filepath.Join(dir, "nope"),
		Dst:     openDst(t, filepath.Join(dir, "dst")),
		Size:    10,
	})
	assert.True(t, os.IsNotExist(err))
}

func TestCopyReadWrite(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	data := []byte("read-write fallback test")
	require.NoError(t, os.WriteFile(srcPath, data, 0o644))
	src, err := os.Open(srcPath)
	require.NoError(t, err)
	defer src.Close()

	result, err := copyReadWrite(src, openDst(t, dst), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, ReadWrite, result.Method)
	assert.Equal(t, int64(len(data)), result.BytesWritten)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCopyReadWriteShortSource(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(srcPath, []byte("abc"), 0o644))
	src, err := os.Open(srcPath)
	require.NoError(t, err)
	defer src.Close()

	// The file shrank after it was sized; copy what is there.
	result, err := copyReadWrite(src, openDst(t, filepath.Join(dir, "dst")), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.BytesWritten)
}

func TestCopyMethodString(t *testing.T) {
	assert.Equal(t, "read_write", ReadWrite.String())
	assert.Equal(t, "copy_file_range", CopyFileRange.String())
	assert.Equal(t, "sendfile", Sendfile.String())
	assert.Equal(t, "unknown", CopyMethod(99).String())
}
