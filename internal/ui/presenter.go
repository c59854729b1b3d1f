package ui

import (
	"io"

	"github.com/bamsammich/ferry/internal/stats"
)

// Presenter consumes engine events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes.
	Run(events <-chan Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Stats     stats.ReadTicker
	Root      string // stripped from displayed paths
	IsTTY     bool
	Quiet     bool
	Width     int // terminal columns for the live feed; zero when unknown
}

// NewPresenter picks a presenter for cfg: silent when quiet, a live feed
// with an in-place progress footer on a terminal, plain lines otherwise.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{stats: cfg.Stats}
	}
	if !cfg.IsTTY {
		return &plainPresenter{
			w:     cfg.Writer,
			errW:  cfg.ErrWriter,
			stats: cfg.Stats,
			root:  cfg.Root,
		}
	}
	return &livePresenter{
		w:         cfg.ErrWriter,
		stats:     cfg.Stats,
		root:      cfg.Root,
		paint:     painter(true),
		pathWidth: feedPathWidth(cfg.Width),
	}
}
