package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/ferry/internal/engine"
)

// env points HOME and the config directory into a fresh temp dir and
// returns the home path.
func env(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	return home
}

func ferry(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := &cli{stdout: &out, stderr: &errOut}
	code = c.execute(args)
	return out.String(), errOut.String(), code
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestVersion(t *testing.T) {
	env(t)
	out, _, code := ferry(t, "--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "ferry dev\n", out)
}

func TestCopyRenamesOnConflict(t *testing.T) {
	home := env(t)
	src := filepath.Join(home, "notes.txt")
	dst := filepath.Join(home, "backup")
	writeFile(t, src, "hello")
	require.NoError(t, os.Mkdir(dst, 0o755))

	_, _, code := ferry(t, "-q", "cp", src, dst)
	require.Equal(t, 0, code)
	_, _, code = ferry(t, "-q", "cp", src, dst)
	require.Equal(t, 0, code)

	got, err := os.ReadFile(filepath.Join(dst, "notes (copy 1).txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
	assert.FileExists(t, filepath.Join(dst, "notes.txt"))
}

func TestCopyNoRenameFails(t *testing.T) {
	home := env(t)
	src := filepath.Join(home, "a.txt")
	dst := filepath.Join(home, "out")
	writeFile(t, src, "x")
	writeFile(t, filepath.Join(dst, "a.txt"), "existing")

	_, _, code := ferry(t, "-q", "cp", "--no-rename", src, dst)
	assert.Equal(t, 2, code)

	got, err := os.ReadFile(filepath.Join(dst, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "existing", string(got))
}

func TestCopyPartialFailureExitCode(t *testing.T) {
	home := env(t)
	a := filepath.Join(home, "a.txt")
	b := filepath.Join(home, "b.txt")
	dst := filepath.Join(home, "out")
	writeFile(t, a, "a")
	writeFile(t, b, "b")
	writeFile(t, filepath.Join(dst, "b.txt"), "taken")

	_, _, code := ferry(t, "-q", "cp", "--no-rename", a, b, dst)
	assert.Equal(t, 1, code)
	assert.FileExists(t, filepath.Join(dst, "a.txt"))
}

func TestCopyMissingSourceCopiesNothing(t *testing.T) {
	home := env(t)
	a := filepath.Join(home, "a.txt")
	dst := filepath.Join(home, "out")
	writeFile(t, a, "a")
	require.NoError(t, os.Mkdir(dst, 0o755))

	_, _, code := ferry(t, "-q", "cp", a, filepath.Join(home, "missing.txt"), dst)
	assert.Equal(t, 2, code)
	assert.NoFileExists(t, filepath.Join(dst, "a.txt"))
}

func TestCopyPlainOutput(t *testing.T) {
	home := env(t)
	src := filepath.Join(home, "a.txt")
	dst := filepath.Join(home, "out")
	writeFile(t, src, "12345")
	require.NoError(t, os.Mkdir(dst, 0o755))

	out, stderr, code := ferry(t, "cp", src, dst)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "-> a.txt  5 B")
	assert.Contains(t, stderr, "done ✓")
}

func TestMoveDirectoryTree(t *testing.T) {
	home := env(t)
	writeFile(t, filepath.Join(home, "A", "B", "C"), "c")
	dst := filepath.Join(home, "D")
	require.NoError(t, os.Mkdir(dst, 0o755))

	_, _, code := ferry(t, "-q", "mv", filepath.Join(home, "A"), dst)
	require.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(dst, "A", "B", "C"))
	assert.NoDirExists(t, filepath.Join(home, "A"))
}

func TestRenameAndRemove(t *testing.T) {
	home := env(t)
	path := filepath.Join(home, "old.txt")
	writeFile(t, path, "x")

	_, _, code := ferry(t, "-q", "rename", path, "new.txt")
	require.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(home, "new.txt"))

	_, _, code = ferry(t, "-q", "rename", filepath.Join(home, "new.txt"), "a/b")
	assert.Equal(t, 2, code)

	dir := filepath.Join(home, "tree")
	writeFile(t, filepath.Join(dir, "x", "y.txt"), "y")
	_, _, code = ferry(t, "-q", "rm", dir)
	assert.Equal(t, 2, code, "non-empty directory needs -r")
	_, _, code = ferry(t, "-q", "rm", "-r", dir, filepath.Join(home, "new.txt"))
	require.Equal(t, 0, code)
	assert.NoDirExists(t, dir)
	assert.NoFileExists(t, filepath.Join(home, "new.txt"))
}

func TestListFiltersAndHidden(t *testing.T) {
	home := env(t)
	dir := filepath.Join(home, "list")
	writeFile(t, filepath.Join(dir, "b.txt"), "b")
	writeFile(t, filepath.Join(dir, "a.log"), "a")
	writeFile(t, filepath.Join(dir, ".hidden"), "h")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	out, _, code := ferry(t, "ls", dir)
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "sub/", lines[0])
	assert.NotContains(t, out, ".hidden")

	out, _, code = ferry(t, "ls", "-a", "--exclude", "*.log", dir)
	require.Equal(t, 0, code)
	assert.Contains(t, out, ".hidden")
	assert.NotContains(t, out, "a.log")
}

func TestMkdirStatAndSum(t *testing.T) {
	home := env(t)
	dir := filepath.Join(home, "x", "y")
	_, _, code := ferry(t, "-q", "mkdir", dir)
	require.Equal(t, 0, code)
	assert.DirExists(t, dir)

	out, _, code := ferry(t, "stat", dir)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "type:     directory")

	file := filepath.Join(home, "f.bin")
	writeFile(t, file, "data")
	out, _, code = ferry(t, "-q", "sum", file, filepath.Join(home, "nope"))
	assert.Equal(t, 1, code)
	fields := strings.Fields(out)
	require.Len(t, fields, 2)
	assert.Len(t, fields[0], 64)
}

func TestCheckAndRoots(t *testing.T) {
	home := env(t)
	writeFile(t, filepath.Join(home, "a.txt"), "a")

	out, _, code := ferry(t, "check", filepath.Join(home, "a.txt"), home)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "ok: fits on "+filepath.Base(home))

	out, _, code = ferry(t, "roots")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "* "+filepath.Base(home)))
}

func TestConfigInitShowAndInvalid(t *testing.T) {
	home := env(t)
	path := filepath.Join(home, ".config", "ferry", "config.toml")

	out, _, code := ferry(t, "config", "init")
	require.Equal(t, 0, code)
	assert.Equal(t, "wrote "+path+"\n", out)

	_, stderr, code := ferry(t, "config", "init")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--force")

	out, _, code = ferry(t, "config", "show")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "fs_limit = 30")

	writeFile(t, path, "[queue]\nfs_limt = 3\n")
	_, stderr, code = ferry(t, "ls", home)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown config keys")
}

func TestFSLimitFlag(t *testing.T) {
	env(t)
	_, stderr, code := ferry(t, "--fs-limit", "0", "ls")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--fs-limit")
}

func TestOperationErrorCodes(t *testing.T) {
	c := &cli{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	require.NoError(t, c.setupLogging(nil, nil))

	assert.NoError(t, c.operationError("copy", nil))

	var exitErr *exitError
	partial := &engine.BatchError{Op: "copy", Total: 2, Failures: []engine.ItemError{{Path: "/a", Err: errors.New("x")}}}
	require.ErrorAs(t, c.operationError("copy", partial), &exitErr)
	assert.Equal(t, 1, exitErr.code)

	total := &engine.BatchError{Op: "copy", Total: 1, Failures: []engine.ItemError{{Path: "/a", Err: errors.New("x")}}}
	require.ErrorAs(t, c.operationError("copy", total), &exitErr)
	assert.Equal(t, 2, exitErr.code)

	require.ErrorAs(t, c.operationError("list", errors.New("boom")), &exitErr)
	assert.Equal(t, 2, exitErr.code)
}

func TestExitFor(t *testing.T) {
	assert.NoError(t, exitFor(0, 3))
	var exitErr *exitError
	require.ErrorAs(t, exitFor(1, 3), &exitErr)
	assert.Equal(t, 1, exitErr.code)
	require.ErrorAs(t, exitFor(3, 3), &exitErr)
	assert.Equal(t, 2, exitErr.code)
}
