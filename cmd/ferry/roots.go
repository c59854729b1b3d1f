package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bamsammich/ferry/internal/manager"
	"github.com/bamsammich/ferry/internal/storage"
	"github.com/bamsammich/ferry/internal/ui"
)

func (c *cli) rootsCmd() *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "roots",
		Short: "Show storage roots with free and total space",
		Long: `Show the storage roots: the home directory (marked *) followed by the
roots listed in the config file. Roots that do not exist are skipped.
With --watch the list is refreshed periodically until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listing := ui.NewListing(c.stdout, c.color)
			if !watch {
				m := c.newManager(nil, nil)
				roots, err := m.RefreshStorageRoots(cmd.Context())
				if err != nil {
					return c.operationError("refresh storage roots", err)
				}
				listing.Roots(roots)
				return nil
			}

			if !cmd.Flags().Changed("interval") {
				interval = c.settings.RefreshInterval
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m := manager.New(manager.Options{
				FS:       c.fs,
				Prober:   c.prober,
				Logger:   c.logger,
				Settings: c.settings,
				OnRefresh: func(roots []storage.Root) {
					listing.Roots(roots)
					fmt.Fprintln(c.stdout)
				},
			})
			// Run returns once interrupted.
			m.Roots().Run(ctx, interval)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep refreshing until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", storage.DefaultRefreshInterval, "refresh interval with --watch (default from config)")
	return cmd
}
