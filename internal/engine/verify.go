package engine

import (
	"context"

	"github.com/bamsammich/ferry/internal/event"
)

// verify compares the BLAKE3 digests of src and dst.
func (e *Engine) verify(ctx context.Context, src, dst string) error {
	srcHash, err := e.gw.Hash(ctx, src)
	if err != nil {
		return err
	}
	dstHash, err := e.gw.Hash(ctx, dst)
	if err != nil {
		return err
	}
	if srcHash != dstHash {
		e.stats.AddFilesVerifyFailed(1)
		e.emit(event.Event{Type: event.VerifyFailed, Path: src, Dest: dst})
		return &VerifyError{Src: src, Dst: dst, SrcHash: srcHash, DstHash: dstHash}
	}
	e.stats.AddFilesVerified(1)
	e.emit(event.Event{Type: event.VerifyOK, Path: src, Dest: dst})
	return nil
}
