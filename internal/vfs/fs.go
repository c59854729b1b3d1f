package vfs

// FS is the set of filesystem primitives the engine is built on. Every
// method maps to a single OS-level operation; implementations add no
// retries, caching, or path normalisation.
type FS interface {
	// Exists reports whether path exists. It does not follow a final symlink.
	Exists(path string) (bool, error)

	// Stat returns a snapshot of path. It does not follow a final symlink.
	Stat(path string) (Entry, error)

	// Mkdir creates the single directory path. It fails with fs.ErrExist
	// when anything already exists there.
	Mkdir(path string) error

	// MkdirAll creates path and any missing parents. An existing directory
	// is not an error.
	MkdirAll(path string) error

	// ReadDir lists the immediate children of path.
	ReadDir(path string) ([]Entry, error)

	// CopyFile copies the file at src to dst. It fails with fs.ErrExist
	// when dst exists, including when it appears while the copy runs.
	CopyFile(src, dst string) error

	// MoveFile moves the file at src to dst. It fails with fs.ErrExist
	// when dst exists.
	MoveFile(src, dst string) error

	// Remove deletes a file or an empty directory.
	Remove(path string) error

	// Hash returns the hex BLAKE3 digest of the file at path.
	Hash(path string) (string, error)
}
