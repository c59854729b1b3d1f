package gateway

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Op names a filesystem primitive.
type Op string

const (
	OpExists  Op = "check"
	OpStat    Op = "stat"
	OpMkdir   Op = "create directory"
	OpReadDir Op = "list directory"
	OpCopy    Op = "copy"
	OpMove    Op = "move"
	OpDelete  Op = "delete"
	OpHash    Op = "hash"
)

// OpError records a failed filesystem primitive. The original cause is kept
// for errors.Is / errors.As.
type OpError struct {
	Err  error
	Op   Op
	Path string
	Dst  string // set for copy and move
}

func (e *OpError) Error() string {
	if e.Dst != "" {
		return fmt.Sprintf("cannot %s %s to %s: %v", e.Op, e.Path, e.Dst, cause(e.Err))
	}
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, cause(e.Err))
}

func (e *OpError) Unwrap() error { return e.Err }

// IsNotFound reports whether err was caused by a missing path.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// cause drops the os-level path wrapper, since OpError already names the paths.
func cause(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		return le.Err
	}
	return err
}

func wrap(op Op, path, dst string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Path: path, Dst: dst, Err: err}
}
