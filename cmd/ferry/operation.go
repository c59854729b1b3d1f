package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bamsammich/ferry/internal/event"
	"github.com/bamsammich/ferry/internal/manager"
	"github.com/bamsammich/ferry/internal/stats"
	"github.com/bamsammich/ferry/internal/ui"
	"github.com/bamsammich/ferry/internal/vfs"
)

const eventBuffer = 256

// runOperation runs op with a presenter consuming its events. An interrupt
// cancels the context; temporary copy files left behind are removed.
func (c *cli) runOperation(
	cmd *cobra.Command,
	name, displayRoot string,
	op func(ctx context.Context, m *manager.Manager) error,
) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := stats.NewCollector()
	events := make(chan event.Event, eventBuffer)
	presenter := ui.NewPresenter(ui.Config{
		Writer:    c.stdout,
		ErrWriter: c.stderr,
		Stats:     collector,
		Root:      displayRoot,
		IsTTY:     c.isTTY,
		Quiet:     c.quiet,
		Width:     c.width,
	})

	var presenterErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		presenterErr = presenter.Run(c.teeEvents(events))
	}()

	c.logger.Debug("starting "+name, "fs_limit", c.settings.FSLimit)
	err := op(ctx, c.newManager(events, collector))
	stop()
	close(events)
	wg.Wait()

	if ctx.Err() != nil {
		if n := vfs.PendingTmpFiles(); n > 0 {
			c.logger.Warn("interrupted, removing temporary files", "count", n)
		}
		vfs.CleanupTmpFiles()
	}
	if presenterErr != nil {
		fmt.Fprintf(c.stderr, "presenter: %v\n", presenterErr)
	}
	if !c.quiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(c.stderr, summary)
		}
	}
	c.logger.Debug(name+" finished", "stats", collector.Snapshot().String())
	return c.operationError(name, err)
}

// teeEvents logs every event as a structured record when --log is set,
// forwarding it unchanged.
func (c *cli) teeEvents(events <-chan event.Event) <-chan event.Event {
	if c.logFile == "" {
		return events
	}
	teed := make(chan event.Event, eventBuffer)
	go func() {
		defer close(teed)
		for ev := range events {
			attrs := []slog.Attr{
				slog.String("type", ev.Type.String()),
				slog.String("path", ev.Path),
				slog.Int64("size", ev.Size),
			}
			if ev.Dest != "" {
				attrs = append(attrs, slog.String("dest", ev.Dest))
			}
			if ev.Error != nil {
				attrs = append(attrs, slog.String("error", ev.Error.Error()))
			}
			c.logger.LogAttrs(context.Background(), slog.LevelDebug, "ferry.event", attrs...)
			teed <- ev
		}
	}()
	return teed
}
