package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternStar(t *testing.T) {
	p, err := compileGlob("*.log")
	require.NoError(t, err)

	// Matches basename.
	assert.True(t, p.match("app.log", false))
	assert.True(t, p.match("dir/app.log", false))

	// Does not match partial.
	assert.False(t, p.match("app.log.bak", false))
	assert.False(t, p.match("app.txt", false))
}

func TestPatternDoubleStar(t *testing.T) {
	p, err := compileGlob("**/*.go")
	require.NoError(t, err)

	assert.True(t, p.match("main.go", false))
	assert.True(t, p.match("cmd/ferry/main.go", false))
	assert.True(t, p.match("internal/engine/engine.go", false))
	assert.False(t, p.match("main.txt", false))
}

func TestPatternAnchored(t *testing.T) {
	p, err := compileGlob("/root.txt")
	require.NoError(t, err)

	assert.True(t, p.match("root.txt", false))
	assert.False(t, p.match("sub/root.txt", false))
}

func TestPatternUnanchoredBasename(t *testing.T) {
	p, err := compileGlob("*.tmp")
	require.NoError(t, err)

	assert.True(t, p.match("file.tmp", false))
	assert.True(t, p.match("a/b/c/file.tmp", false))
}

func TestPatternDirOnly(t *testing.T) {
	p, err := compileGlob("build/")
	require.NoError(t, err)

	assert.True(t, p.match("build", true))
	assert.True(t, p.match("sub/build", true))
	assert.False(t, p.match("build", false)) // not a dir
}

func TestPatternQuestion(t *testing.T) {
	p, err := compileGlob("file?.txt")
	require.NoError(t, err)

	assert.True(t, p.match("file1.txt", false))
	assert.True(t, p.match("fileA.txt", false))
	assert.False(t, p.match("file12.txt", false))
	assert.False(t, p.match("file/.txt", false)) // ? does not match /
}

func TestPatternContainingSlash(t *testing.T) {
	// Pattern containing / but not leading / is anchored per rsync.
	p, err := compileGlob("sub/dir/*.txt")
	require.NoError(t, err)

	assert.True(t, p.match("sub/dir/file.txt", false))
	assert.False(t, p.match("other/sub/dir/file.txt", false))
}

func TestGlobCharacterClass(t *testing.T) {
	p, err := compileGlob("img[0-9].png")
	require.NoError(t, err)
	assert.True(t, p.match("img3.png", false))
	assert.False(t, p.match("imgx.png", false))

	neg, err := compileGlob("[!a]*")
	require.NoError(t, err)
	assert.False(t, neg.match("apple", false))
	assert.True(t, neg.match("banana", false))
}

func TestGlobUnterminatedClassIsLiteral(t *testing.T) {
	p, err := compileGlob("a[b")
	require.NoError(t, err)
	assert.True(t, p.match("a[b", false))
	assert.False(t, p.match("ab", false))
}

func TestGlobEmptyPattern(t *testing.T) {
	_, err := compileGlob("  ")
	assert.Error(t, err)
}
