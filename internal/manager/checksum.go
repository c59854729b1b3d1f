package manager

import (
	"context"

	"github.com/bamsammich/ferry/internal/deferred"
	"github.com/bamsammich/ferry/internal/queue"
)

// Checksum is the BLAKE3 digest of one file, or the error hashing it.
type Checksum struct {
	Err  error
	Path string
	Sum  string
}

// Checksums hashes every path. Hashing is CPU bound, so at most
// Settings.DefaultLimit hashes run at once on top of the gateway's own
// bound on open files. Results are in input order.
func (m *Manager) Checksums(ctx context.Context, paths []string) []Checksum {
	hash := queue.Limit(m.general, func(path string) (string, error) {
		return m.gw.Hash(ctx, path)
	})

	handles := make([]*deferred.Handle[string], len(paths))
	for i, p := range paths {
		handles[i] = hash(p)
	}

	out := make([]Checksum, len(paths))
	for i, h := range handles {
		sum, err := h.Wait(ctx)
		out[i] = Checksum{Path: paths[i], Sum: sum, Err: err}
	}
	return out
}
