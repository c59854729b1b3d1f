package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, dir, base, ext string
	}{
		{"/d/notes.txt", "/d/", "notes", ".txt"},
		{"/d/archive.tar.gz", "/d/", "archive.tar", ".gz"},
		{"/d/README", "/d/", "README", ""},
		{"/d/.bashrc", "/d/", ".bashrc", ""},
		{"/d/.config.bak", "/d/", ".config", ".bak"},
		{"/dir.d/file", "/dir.d/", "file", ""},
		{"/d/trailing.", "/d/", "trailing", "."},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			dir, base, ext := splitName(tt.path)
			assert.Equal(t, tt.dir, dir)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestCandidateName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/d/notes (copy 1).txt", candidateName("/d/notes.txt", DefaultCopySuffix, 1))
	assert.Equal(t, "/d/notes (move 12).txt", candidateName("/d/notes.txt", DefaultMoveSuffix, 12))
	assert.Equal(t, "/d/Photos (copy 2)", candidateName("/d/Photos", DefaultCopySuffix, 2))
	assert.Equal(t, "/d/.bashrc (copy 1)", candidateName("/d/.bashrc", DefaultCopySuffix, 1))
	assert.Equal(t, "/d/a [3].txt", candidateName("/d/a.txt", "[%d]", 3))
}

func TestCheckNesting(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, checkNesting("/a", "/a/b"), ErrIntoItself)
	assert.ErrorIs(t, checkNesting("/a/", "/a/b/c"), ErrIntoItself)
	assert.NoError(t, checkNesting("/a", "/a"))
	assert.NoError(t, checkNesting("/a", "/ab"))
	assert.NoError(t, checkNesting("/a/b", "/a"))
}

func TestValidName(t *testing.T) {
	t.Parallel()

	assert.True(t, validName("report.pdf"))
	assert.True(t, validName(".hidden"))
	assert.False(t, validName(""))
	assert.False(t, validName("."))
	assert.False(t, validName(".."))
	assert.False(t, validName("a/b"))
}
