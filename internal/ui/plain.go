package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/ferry/internal/stats"
)

const plainProgressInterval = 5 * time.Second

// plainPresenter writes one line per finished item to w and periodic
// progress to errW. Used when output is not a terminal.
type plainPresenter struct {
	w     io.Writer
	errW  io.Writer
	stats stats.ReadTicker
	root  string
}

func (p *plainPresenter) Run(events <-chan Event) error {
	progress := time.NewTicker(plainProgressInterval)
	defer progress.Stop()
	sample := time.NewTicker(time.Second)
	defer sample.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-sample.C:
			p.stats.Tick()
		case <-progress.C:
			p.printProgress()
		}
	}
}

func (p *plainPresenter) handleEvent(ev Event) {
	path := StripRoot(p.root, ev.Path)
	dest := StripRoot(p.root, ev.Dest)
	switch ev.Type {
	case FileCopied:
		fmt.Fprintf(p.w, "%s -> %s  %s\n", path, dest, FormatBytes(ev.Size))
	case FileMoved:
		fmt.Fprintf(p.w, "%s => %s\n", path, dest)
	case ItemDeleted, DirRemoved:
		fmt.Fprintf(p.w, "delete: %s\n", path)
	case ConflictRenamed:
		fmt.Fprintf(p.w, "renamed: %s -> %s\n", path, dest)
	case ItemFailed:
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.w, "failed: %s  %s\n", path, errMsg)
	case VerifyFailed:
		fmt.Fprintf(p.w, "MISMATCH: %s\n", dest)
	case DirCreated, VerifyOK:
		// silent in plain mode
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	if snap.BytesTotal > 0 {
		pct := float64(snap.BytesCopied) / float64(snap.BytesTotal) * 100
		fmt.Fprintf(p.errW, "progress: %.0f%% %s/%s %s/%s files %s eta %s\n",
			pct,
			FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesTotal),
			FormatCount(snap.FilesCopied), FormatCount(snap.FilesTotal),
			FormatRate(p.stats.RollingSpeed(10)),
			FormatETA(p.stats.ETA()),
		)
		return
	}
	fmt.Fprintf(p.errW, "progress: %s\n", snap)
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}
