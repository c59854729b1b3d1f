package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bamsammich/ferry/internal/filter"
	"github.com/bamsammich/ferry/internal/manager"
)

// transferFlags are shared by cp and mv.
type transferFlags struct {
	noRename bool
	bwlimit  string
}

func (f *transferFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noRename, "no-rename", false, "fail instead of renaming when a destination name is taken")
	cmd.Flags().StringVar(&f.bwlimit, "bwlimit", "", "bandwidth limit for file data (e.g. 100M, 1G; default from config)")
}

// apply overrides settings with explicitly given flags.
func (f *transferFlags) apply(cmd *cobra.Command, c *cli) error {
	if cmd.Flags().Changed("bwlimit") {
		n, err := filter.ParseSize(f.bwlimit)
		if err != nil {
			return fmt.Errorf("invalid --bwlimit: %w", err)
		}
		c.settings.BWLimit = n
	}
	return nil
}

func splitTransferArgs(args []string) (sources []string, dst string, err error) {
	paths, err := absPaths(args)
	if err != nil {
		return nil, "", err
	}
	return paths[:len(paths)-1], paths[len(paths)-1], nil
}

func (c *cli) cpCmd() *cobra.Command {
	var (
		flags  transferFlags
		verify bool
	)
	cmd := &cobra.Command{
		Use:   "cp <source>... <directory>",
		Short: "Copy files and directory trees into a directory",
		Long: `Copy every source, recursively, into the destination directory. Nothing is
written if the sources would not fit on the destination's storage root.
Existing names are never overwritten; the copy is renamed instead, for
example "notes (copy 1).txt", unless --no-rename is given.`,
		Args: minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, c); err != nil {
				return err
			}
			if cmd.Flags().Changed("verify") {
				c.settings.Verify = verify
			}
			sources, dst, err := splitTransferArgs(args)
			if err != nil {
				return err
			}
			return c.runOperation(cmd, "copy", dst, func(ctx context.Context, m *manager.Manager) error {
				return m.Copy(ctx, sources, dst, !flags.noRename)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&verify, "verify", false, "verify checksums after copy (BLAKE3; default from config)")
	return cmd
}

func (c *cli) mvCmd() *cobra.Command {
	var flags transferFlags
	cmd := &cobra.Command{
		Use:   "mv <source>... <directory>",
		Short: "Move files and directory trees into a directory",
		Long: `Move every source into the destination directory. A directory whose name
is taken is moved under a new name such as "photos (move 1)"; directories
are never merged. A directory is only removed once all of its contents
moved.`,
		Args: minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, c); err != nil {
				return err
			}
			sources, dst, err := splitTransferArgs(args)
			if err != nil {
				return err
			}
			return c.runOperation(cmd, "move", dst, func(ctx context.Context, m *manager.Manager) error {
				return m.Move(ctx, sources, dst, !flags.noRename)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func minArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return errNeedDestination
		}
		return nil
	}
}
