package engine_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/ferry/internal/engine"
	"github.com/bamsammich/ferry/internal/gateway"
	"github.com/bamsammich/ferry/internal/queue"
	"github.com/bamsammich/ferry/internal/vfs"
	"github.com/bamsammich/ferry/internal/vfs/vfstest"
)

// racingFS creates an item at the first destination a copy or move lands
// on, just before the write, like a concurrent writer would.
type racingFS struct {
	*vfstest.MemFS
	once sync.Once
}

func (r *racingFS) takeFirst(dst string) {
	r.once.Do(func() { r.MemFS.AddFile(dst, "racer") })
}

func (r *racingFS) CopyFile(src, dst string) error {
	r.takeFirst(dst)
	return r.MemFS.CopyFile(src, dst)
}

func (r *racingFS) MoveFile(src, dst string) error {
	r.takeFirst(dst)
	return r.MemFS.MoveFile(src, dst)
}

var _ vfs.FS = (*racingFS)(nil)

func sameNameSources(mem *vfstest.MemFS, n int, name string) []string {
	sources := make([]string, n)
	for i := range n {
		sources[i] = fmt.Sprintf("/s%d/%s", i, name)
		mem.AddFile(sources[i], fmt.Sprintf("content %d", i))
	}
	mem.AddDir("/dst")
	return sources
}

func expectedContents(n int) []string {
	want := make([]string, n)
	for i := range n {
		want[i] = fmt.Sprintf("content %d", i)
	}
	sort.Strings(want)
	return want
}

// filesUnder returns the contents of every file below dir, sorted.
func filesUnder(mem *vfstest.MemFS, dir string) []string {
	var out []string
	for _, p := range mem.Paths(dir) {
		if data, ok := mem.ReadFile(p); ok {
			out = append(out, data)
		}
	}
	sort.Strings(out)
	return out
}

func TestMoveBatched_SameBaseNameKeepsEveryFile(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.FSLimit, engine.Options{}, nil)
	h.mem.Delay = time.Millisecond
	sources := sameNameSources(h.mem, 8, "f.txt")

	require.NoError(t, h.eng.MoveBatched(context.Background(), sources, "/dst", true))

	assert.Equal(t, expectedContents(8), filesUnder(h.mem, "/dst"))
	for _, src := range sources {
		assert.False(t, h.mem.Has(src), src)
	}
	assert.True(t, h.mem.Has("/dst/f.txt"))
	assert.Len(t, h.mem.Paths("/dst"), 9)
}

func TestCopyBatched_SameBaseNameDirectories(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.FSLimit, engine.Options{}, nil)
	h.mem.Delay = time.Millisecond
	sources := make([]string, 6)
	for i := range sources {
		sources[i] = fmt.Sprintf("/s%d/album", i)
		h.mem.AddFile(sources[i]+"/track.txt", fmt.Sprintf("content %d", i))
	}
	h.mem.AddDir("/dst")

	require.NoError(t, h.eng.CopyBatched(context.Background(), sources, "/dst", true))

	assert.Equal(t, expectedContents(6), filesUnder(h.mem, "/dst"))
	var albums []string
	for _, p := range h.mem.Paths("/dst") {
		if filepath.Dir(p) == "/dst" {
			albums = append(albums, filepath.Base(p))
		}
	}
	require.Len(t, albums, 6, "each directory lands under its own name")
	for _, name := range albums {
		assert.True(t, strings.HasPrefix(name, "album"), name)
		assert.True(t, h.mem.Has("/dst/"+name+"/track.txt"), name)
	}
}

func TestMoveBatched_SameBaseNameWithoutInjection(t *testing.T) {
	t.Parallel()

	h := newHarness(t, queue.FSLimit, engine.Options{}, nil)
	h.mem.Delay = time.Millisecond
	sources := sameNameSources(h.mem, 4, "f.txt")

	err := h.eng.MoveBatched(context.Background(), sources, "/dst", false)
	require.ErrorIs(t, err, engine.ErrConflict)
	var batch *engine.BatchError
	require.ErrorAs(t, err, &batch)
	assert.Len(t, batch.Failures, 3)
	assert.True(t, batch.Partial())

	assert.Len(t, filesUnder(h.mem, "/dst"), 1)
	left := 0
	for _, src := range sources {
		if h.mem.Has(src) {
			left++
		}
	}
	assert.Equal(t, 3, left, "failed moves leave their source in place")
}

func TestCopy_DestinationTakenWhileLanding(t *testing.T) {
	t.Parallel()

	mem := vfstest.New()
	mem.AddFile("/src/a.txt", "mine")
	mem.AddDir("/dst")
	fsys := &racingFS{MemFS: mem}
	eng := engine.New(gateway.New(fsys, queue.New(4)), nil, engine.Options{})

	require.NoError(t, eng.Copy(context.Background(), "/src/a.txt", "/dst/a.txt", true))

	racer, _ := mem.ReadFile("/dst/a.txt")
	assert.Equal(t, "racer", racer)
	got, ok := mem.ReadFile("/dst/a (copy 1).txt")
	require.True(t, ok)
	assert.Equal(t, "mine", got)
}

func TestMove_DestinationTakenWhileLandingConflicts(t *testing.T) {
	t.Parallel()

	mem := vfstest.New()
	mem.AddFile("/src/a.txt", "mine")
	mem.AddDir("/dst")
	fsys := &racingFS{MemFS: mem}
	eng := engine.New(gateway.New(fsys, queue.New(4)), nil, engine.Options{})

	err := eng.Move(context.Background(), "/src/a.txt", "/dst/a.txt", false)
	var conflict *engine.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "/dst/a.txt", conflict.Path)

	racer, _ := mem.ReadFile("/dst/a.txt")
	assert.Equal(t, "racer", racer)
	assert.True(t, mem.Has("/src/a.txt"))
}

func TestMoveBatched_SameBaseNameLocal(t *testing.T) {
	t.Parallel()

	eng := engine.New(gateway.New(vfs.NewLocal(vfs.LocalOptions{}), nil), nil, engine.Options{})
	const n = 8

	for round := range 25 {
		root := t.TempDir()
		dst := filepath.Join(root, "dst")
		require.NoError(t, os.Mkdir(dst, 0o755))
		sources := make([]string, n)
		for i := range n {
			dir := filepath.Join(root, fmt.Sprintf("s%d", i))
			require.NoError(t, os.Mkdir(dir, 0o755))
			sources[i] = filepath.Join(dir, "f.txt")
			require.NoError(t, os.WriteFile(sources[i], []byte(fmt.Sprintf("content %d", i)), 0o644))
		}

		require.NoError(t, eng.MoveBatched(context.Background(), sources, dst, true), "round %d", round)

		entries, err := os.ReadDir(dst)
		require.NoError(t, err)
		var got []string
		for _, ent := range entries {
			data, err := os.ReadFile(filepath.Join(dst, ent.Name()))
			require.NoError(t, err)
			got = append(got, string(data))
		}
		sort.Strings(got)
		require.Equal(t, expectedContents(n), got, "round %d", round)
	}
}

func TestCopyBatched_SameBaseNameLocal(t *testing.T) {
	t.Parallel()

	eng := engine.New(gateway.New(vfs.NewLocal(vfs.LocalOptions{}), nil), nil, engine.Options{})
	root := t.TempDir()
	dst := filepath.Join(root, "dst")
	require.NoError(t, os.Mkdir(dst, 0o755))
	const n = 6
	sources := make([]string, n)
	for i := range n {
		sources[i] = filepath.Join(root, fmt.Sprintf("s%d", i), "album")
		require.NoError(t, os.MkdirAll(sources[i], 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(sources[i], "track.txt"), []byte(fmt.Sprintf("content %d", i)), 0o644))
	}

	require.NoError(t, eng.CopyBatched(context.Background(), sources, dst, true))

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	require.Len(t, entries, n)
	var got []string
	for _, ent := range entries {
		require.True(t, ent.IsDir(), ent.Name())
		data, err := os.ReadFile(filepath.Join(dst, ent.Name(), "track.txt"))
		require.NoError(t, err)
		got = append(got, string(data))
	}
	sort.Strings(got)
	assert.Equal(t, expectedContents(n), got)
}
