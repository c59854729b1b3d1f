package engine_test

import (
	"strings"
	"testing"

	"github.com/bamsammich/ferry/internal/engine"
	"github.com/bamsammich/ferry/internal/event"
	"github.com/bamsammich/ferry/internal/gateway"
	"github.com/bamsammich/ferry/internal/queue"
	"github.com/bamsammich/ferry/internal/stats"
	"github.com/bamsammich/ferry/internal/storage"
	"github.com/bamsammich/ferry/internal/vfs"
	"github.com/bamsammich/ferry/internal/vfs/vfstest"
)

const mb = 1 << 20

// fixedRoots resolves paths under a single root.
type fixedRoots struct {
	root storage.Root
}

func (f fixedRoots) RootFor(path string) (storage.Root, bool) {
	if strings.HasPrefix(path, f.root.Path) {
		return f.root, true
	}
	return storage.Root{}, false
}

type harness struct {
	mem    *vfstest.MemFS
	eng    *engine.Engine
	stats  *stats.Collector
	events chan event.Event
}

func newHarness(t *testing.T, limit int, opts engine.Options, roots engine.RootResolver) *harness {
	t.Helper()
	h := &harness{
		mem:    vfstest.New(),
		stats:  stats.NewCollector(),
		events: make(chan event.Event, 1024),
	}
	opts.Stats = h.stats
	opts.Events = h.events
	h.eng = engine.New(gateway.New(h.mem, queue.New(limit)), roots, opts)
	return h
}

// drain returns the events emitted so far.
func (h *harness) drain() []event.Event {
	var out []event.Event
	for {
		select {
		case ev := <-h.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func countType(events []event.Event, typ event.Type) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// corruptFS writes garbage over every copied file.
type corruptFS struct {
	*vfstest.MemFS
}

func (c corruptFS) CopyFile(src, dst string) error {
	if err := c.MemFS.CopyFile(src, dst); err != nil {
		return err
	}
	c.MemFS.AddFile(dst, "garbage")
	return nil
}

var _ vfs.FS = corruptFS{}
