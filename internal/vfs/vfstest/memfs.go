// Package vfstest provides an in-memory vfs.FS for tests, with call
// counting, failure injection, and in-flight tracking.
package vfstest

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/zeebo/blake3"

	"github.com/bamsammich/ferry/internal/vfs"
)

// Primitive names accepted by FailOn and Calls.
const (
	OpExists  = "exists"
	OpStat    = "stat"
	OpMkdir   = "mkdir"
	OpReadDir = "readdir"
	OpCopy    = "copy"
	OpMove    = "move"
	OpRemove  = "remove"
	OpHash    = "hash"
)

var _ vfs.FS = (*MemFS)(nil)

type node struct {
	modTime time.Time
	data    []byte
	dir     bool
}

// MemFS is a concurrency-safe in-memory filesystem rooted at "/".
type MemFS struct {
	nodes    map[string]*node
	calls    map[string]int
	failures map[string]error
	sizes    map[string]int64
	clock    time.Time
	mu       sync.Mutex

	// Delay is slept inside every primitive, which makes concurrent
	// overlap observable.
	Delay time.Duration

	inFlight atomic.Int32
	peak     atomic.Int32
}

// New returns a MemFS containing only the root directory.
func New() *MemFS {
	m := &MemFS{
		nodes:    make(map[string]*node),
		calls:    make(map[string]int),
		failures: make(map[string]error),
		sizes:    make(map[string]int64),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	m.nodes["/"] = &node{dir: true, modTime: m.clock}
	return m
}

// AddDir creates path and its parents.
func (m *MemFS) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirAll(filepath.Clean(path))
}

// AddFile creates a file with the given content, creating parents.
func (m *MemFS) AddFile(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.mkdirAll(filepath.Dir(path))
	m.nodes[path] = &node{data: []byte(content), modTime: m.tick()}
}

// SetSize makes Stat and ReadDir report size for path regardless of its
// content, so large trees can be described cheaply.
func (m *MemFS) SetSize(path string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sizes[filepath.Clean(path)] = size
}

// FailOn makes every call of op on path return err.
func (m *MemFS) FailOn(op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op+" "+filepath.Clean(path)] = err
}

// Calls returns how many times op was invoked.
func (m *MemFS) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// MutationCalls returns the number of calls that could change the tree.
func (m *MemFS) MutationCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[OpMkdir] + m.calls[OpCopy] + m.calls[OpMove] + m.calls[OpRemove]
}

// PeakInFlight returns the highest number of primitives seen running at once.
func (m *MemFS) PeakInFlight() int { return int(m.peak.Load()) }

// Has reports whether path exists.
func (m *MemFS) Has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.nodes[filepath.Clean(path)]
	return ok
}

// ReadFile returns the content of the file at path.
func (m *MemFS) ReadFile(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[filepath.Clean(path)]
	if !ok || n.dir {
		return "", false
	}
	return string(n.data), true
}

// Paths returns every path under prefix (inclusive), sorted.
func (m *MemFS) Paths(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix = filepath.Clean(prefix)
	var out []string
	for p := range m.nodes {
		if p == prefix || isUnder(p, prefix) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (m *MemFS) Exists(path string) (bool, error) {
	var ok bool
	err := m.call(OpExists, path, func() error {
		_, ok = m.nodes[path]
		return nil
	})
	return ok, err
}

func (m *MemFS) Stat(path string) (vfs.Entry, error) {
	var e vfs.Entry
	err := m.call(OpStat, path, func() error {
		n, ok := m.nodes[path]
		if !ok {
			return notExist("lstat", path)
		}
		e = m.entry(path, n)
		return nil
	})
	return e, err
}

func (m *MemFS) Mkdir(path string) error {
	return m.call(OpMkdir, path, func() error {
		if _, ok := m.nodes[path]; ok {
			return exist("mkdir", path)
		}
		if err := m.checkParent(path); err != nil {
			return err
		}
		m.nodes[path] = &node{dir: true, modTime: m.tick()}
		return nil
	})
}

func (m *MemFS) MkdirAll(path string) error {
	return m.call(OpMkdir, path, func() error {
		for p := path; ; p = filepath.Dir(p) {
			if n, ok := m.nodes[p]; ok && !n.dir {
				return &fs.PathError{Op: "mkdir", Path: p, Err: syscall.ENOTDIR}
			}
			if p == "/" || p == "." {
				break
			}
		}
		m.mkdirAll(path)
		return nil
	})
}

func (m *MemFS) ReadDir(path string) ([]vfs.Entry, error) {
	var out []vfs.Entry
	err := m.call(OpReadDir, path, func() error {
		n, ok := m.nodes[path]
		if !ok {
			return notExist("open", path)
		}
		if !n.dir {
			return &fs.PathError{Op: "readdirent", Path: path, Err: syscall.ENOTDIR}
		}
		for p, child := range m.nodes {
			if p != path && filepath.Dir(p) == path {
				out = append(out, m.entry(p, child))
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func (m *MemFS) CopyFile(src, dst string) error {
	return m.call(OpCopy, src, func() error {
		n, ok := m.nodes[src]
		if !ok {
			return notExist("open", src)
		}
		if n.dir {
			return &fs.PathError{Op: "copy", Path: src, Err: syscall.EISDIR}
		}
		dst = filepath.Clean(dst)
		if err := m.checkFree(dst); err != nil {
			return err
		}
		m.nodes[dst] = &node{data: append([]byte(nil), n.data...), modTime: m.tick()}
		return nil
	})
}

func (m *MemFS) MoveFile(src, dst string) error {
	return m.call(OpMove, src, func() error {
		if _, ok := m.nodes[src]; !ok {
			return notExist("rename", src)
		}
		dst = filepath.Clean(dst)
		if err := m.checkFree(dst); err != nil {
			return err
		}
		moved := make(map[string]*node)
		for p, n := range m.nodes {
			if p == src || isUnder(p, src) {
				moved[dst+strings.TrimPrefix(p, src)] = n
				delete(m.nodes, p)
			}
		}
		for p, n := range moved {
			m.nodes[p] = n
		}
		return nil
	})
}

func (m *MemFS) Remove(path string) error {
	return m.call(OpRemove, path, func() error {
		n, ok := m.nodes[path]
		if !ok {
			return notExist("remove", path)
		}
		if n.dir {
			for p := range m.nodes {
				if isUnder(p, path) {
					return &fs.PathError{Op: "remove", Path: path, Err: syscall.ENOTEMPTY}
				}
			}
		}
		delete(m.nodes, path)
		return nil
	})
}

func (m *MemFS) Hash(path string) (string, error) {
	var sum string
	err := m.call(OpHash, path, func() error {
		n, ok := m.nodes[path]
		if !ok {
			return notExist("open", path)
		}
		h := blake3.Sum256(n.data)
		sum = hex.EncodeToString(h[:])
		return nil
	})
	return sum, err
}

// call counts the primitive, tracks overlap, applies injected failures, and
// runs fn under the tree lock.
func (m *MemFS) call(op, path string, fn func() error) error {
	path = filepath.Clean(path)

	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if cur <= p || m.peak.CompareAndSwap(p, cur) {
			break
		}
	}
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	if err, ok := m.failures[op+" "+path]; ok {
		return err
	}
	return fn()
}

func (m *MemFS) mkdirAll(path string) {
	for p := path; ; p = filepath.Dir(p) {
		if _, ok := m.nodes[p]; !ok {
			m.nodes[p] = &node{dir: true, modTime: m.tick()}
		}
		if p == "/" || p == "." {
			return
		}
	}
}

// checkFree fails unless path is unused and its parent is a directory.
func (m *MemFS) checkFree(path string) error {
	if _, ok := m.nodes[path]; ok {
		return exist("rename", path)
	}
	return m.checkParent(path)
}

func (m *MemFS) checkParent(path string) error {
	parent, ok := m.nodes[filepath.Dir(path)]
	if !ok {
		return notExist("open", path)
	}
	if !parent.dir {
		return &fs.PathError{Op: "open", Path: path, Err: syscall.ENOTDIR}
	}
	return nil
}

func (m *MemFS) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *MemFS) entry(path string, n *node) vfs.Entry {
	e := vfs.Entry{
		Path:       path,
		Name:       filepath.Base(path),
		ModTime:    n.modTime,
		ChangeTime: n.modTime,
		IsDir:      n.dir,
		Mode:       0o644,
	}
	if n.dir {
		e.Mode = fs.ModeDir | 0o755
	} else {
		e.Size = int64(len(n.data))
		if size, ok := m.sizes[path]; ok {
			e.Size = size
		}
	}
	return e
}

func isUnder(p, dir string) bool {
	if dir == "/" {
		return p != "/"
	}
	return strings.HasPrefix(p, dir+"/")
}

func notExist(op, path string) error {
	return &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
}

func exist(op, path string) error {
	return &fs.PathError{Op: op, Path: path, Err: syscall.EEXIST}
}

// ErrInjected is a convenience error for FailOn.
var ErrInjected = errors.New("injected failure")
