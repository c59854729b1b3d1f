package storage

import "golang.org/x/sys/unix"

// Prober reports the capacity of the volume holding path.
type Prober interface {
	Probe(path string) (free, total int64, err error)
}

// StatfsProber reads capacity with statfs(2). Free space is what an
// unprivileged user may allocate, matching df's "Avail" column.
type StatfsProber struct{}

//nolint:gosec // G115: block counts fit in int64 on every supported volume size
func (StatfsProber) Probe(path string) (free, total int64, err error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, 0, err
	}
	bsize := int64(st.Bsize)
	return int64(st.Bavail) * bsize, int64(st.Blocks) * bsize, nil
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(path string) (free, total int64, err error)

func (f ProberFunc) Probe(path string) (free, total int64, err error) { return f(path) }
