package engine

import (
	"errors"
	"fmt"

	"github.com/bamsammich/ferry/internal/stats"
)

var (
	// ErrConflict matches a ConflictError.
	ErrConflict = errors.New("destination already exists")
	// ErrCapacity matches a CapacityError.
	ErrCapacity = errors.New("not enough free space")
	// ErrInvalidName is returned by Rename for names that are empty, contain
	// a path separator, or are "." or "..".
	ErrInvalidName = errors.New("invalid name")
	// ErrIntoItself is returned when a directory would be copied or moved
	// into its own subtree.
	ErrIntoItself = errors.New("cannot copy or move a directory into itself")
)

// ConflictError reports a destination that exists while suffix injection is
// disabled.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConflict, e.Path)
}

func (*ConflictError) Is(target error) bool { return target == ErrConflict }

// CapacityError reports that a batch would not fit on its destination root.
type CapacityError struct {
	Path           string // destination
	Root           string
	RequiredBytes  int64
	AvailableBytes int64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s on %s for %s: need %s, %s available",
		ErrCapacity, e.Root, e.Path,
		stats.FormatBytes(e.RequiredBytes), stats.FormatBytes(e.AvailableBytes))
}

func (*CapacityError) Is(target error) bool { return target == ErrCapacity }

// ItemError is the failure of one element of a batch.
type ItemError struct {
	Err  error
	Path string
}

func (e ItemError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e ItemError) Unwrap() error { return e.Err }

// BatchError reports the elements of a batched operation that failed.
// Elements that succeeded are not rolled back.
type BatchError struct {
	Op       string
	Failures []ItemError
	Total    int
}

func (e *BatchError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("%s: 1 of %d items failed: %v", e.Op, e.Total, e.Failures[0])
	}
	return fmt.Sprintf("%s: %d of %d items failed, first: %v", e.Op, len(e.Failures), e.Total, e.Failures[0])
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Partial reports whether at least one element succeeded.
func (e *BatchError) Partial() bool {
	return len(e.Failures) < e.Total
}

// VerifyError records a checksum mismatch between a copied file and its
// source.
type VerifyError struct {
	Src     string
	Dst     string
	SrcHash string
	DstHash string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("checksum mismatch: %s (%.12s) != %s (%.12s)", e.Dst, e.DstHash, e.Src, e.SrcHash)
}

// newBatchError collects the non-nil errors in errs, which is indexed like
// paths. It returns nil when everything succeeded.
func newBatchError(op string, paths []string, errs []error) error {
	var failures []ItemError
	for i, err := range errs {
		if err != nil {
			failures = append(failures, ItemError{Path: paths[i], Err: err})
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &BatchError{Op: op, Total: len(paths), Failures: failures}
}
