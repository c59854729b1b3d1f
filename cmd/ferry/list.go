package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bamsammich/ferry/internal/filter"
	"github.com/bamsammich/ferry/internal/manager"
	"github.com/bamsammich/ferry/internal/ui"
	"github.com/bamsammich/ferry/internal/vfs"
)

func (c *cli) lsCmd() *cobra.Command {
	var (
		all  bool
		long bool
		sort string
	)
	cmd := &cobra.Command{
		Use:   "ls [directory]",
		Short: "List a directory, directories first, then by modification time",
		Args:  cobra.MaximumNArgs(1),
	}
	filters := filter.Register(cmd.Flags())
	cmd.Flags().BoolVarP(&all, "all", "a", false, "show dot-files (default from config)")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show mode, size and modification time")
	cmd.Flags().StringVar(&sort, "sort", "asc", "modification time order: asc or desc (default from config)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		paths, err := absPaths([]string{dir})
		if err != nil {
			return err
		}

		opts := manager.ListOptions{
			ShowHidden: c.settings.ShowHidden,
			Sort:       c.settings.Sort,
		}
		if cmd.Flags().Changed("all") {
			opts.ShowHidden = all
		}
		if cmd.Flags().Changed("sort") {
			if sort != "asc" && sort != "desc" {
				return fmt.Errorf("--sort must be asc or desc, got %q", sort)
			}
			opts.Sort = vfs.ParseSortOrder(sort)
		}
		chain, err := filters.Chain(time.Now())
		if err != nil {
			return err
		}
		if !chain.Empty() {
			opts.Filter = chain
		}

		m := c.newManager(nil, nil)
		entries, err := m.List(cmd.Context(), paths[0], opts)
		if err != nil {
			return c.operationError("list", err)
		}
		ui.NewListing(c.stdout, c.color).Entries(entries, long)
		return nil
	}
	return cmd
}

func (c *cli) statCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <path>...",
		Short: "Show details of files or directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			m := c.newManager(nil, nil)
			listing := ui.NewListing(c.stdout, c.color)
			return c.eachArg("stat", paths, func(p string) error {
				e, err := m.Stat(cmd.Context(), p)
				if err != nil {
					return err
				}
				listing.Entry(e)
				return nil
			})
		},
	}
}

// eachArg runs fn for every path in order, logging failures. The exit
// code is 1 when only some paths failed and 2 when all did.
func (c *cli) eachArg(op string, paths []string, fn func(string) error) error {
	failed := 0
	for _, p := range paths {
		if err := fn(p); err != nil {
			c.logger.Error(op+" failed", "path", p, "error", err)
			failed++
		}
	}
	return exitFor(failed, len(paths))
}

// exitFor returns nil when nothing failed, exit code 1 when some of total
// items failed and 2 when all did.
func exitFor(failed, total int) error {
	switch {
	case failed == 0:
		return nil
	case failed < total:
		return &exitError{code: 1}
	default:
		return &exitError{code: 2}
	}
}

var errNeedDestination = errors.New("requires at least one source and a destination")
