package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bamsammich/ferry/internal/manager"
	"github.com/bamsammich/ferry/internal/stats"
	"github.com/bamsammich/ferry/internal/vfs"
)

func (c *cli) mkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <directory>...",
		Short: "Create directories, including missing parents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			m := c.newManager(nil, nil)
			return c.eachArg("mkdir", paths, func(p string) error {
				return m.CreateDirectory(cmd.Context(), p)
			})
		},
	}
}

func (c *cli) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <path> <new-name>",
		Short: "Rename a file or directory in place",
		Long: `Give an item a new name in the same directory. The new name may not
contain a path separator. Renaming onto an existing name fails.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args[:1])
			if err != nil {
				return err
			}
			return c.runOperation(cmd, "rename", filepath.Dir(paths[0]), func(ctx context.Context, m *manager.Manager) error {
				item, err := m.Stat(ctx, paths[0])
				if err != nil {
					return err
				}
				return m.Rename(ctx, item, args[1])
			})
		},
	}
}

func (c *cli) rmCmd() *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "rm <path>...",
		Short: "Delete files and directories",
		Long: `Delete every path. Without --recursive only files, symlinks and empty
directories can be removed. Items that fail do not stop the rest.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			items := make([]vfs.Entry, len(paths))
			for i, p := range paths {
				items[i] = vfs.Entry{Path: p, Name: filepath.Base(p)}
			}
			return c.runOperation(cmd, "delete", "", func(ctx context.Context, m *manager.Manager) error {
				if recursive {
					return m.DeleteTree(ctx, items)
				}
				return m.Delete(ctx, items)
			})
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "delete directories and their contents")
	return cmd
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <source>... <directory>",
		Short: "Check whether sources fit on the destination's storage root",
		Args:  minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, dst, err := splitTransferArgs(args)
			if err != nil {
				return err
			}
			m := c.newManager(nil, nil)
			if err := m.ValidateCapacity(cmd.Context(), sources, dst); err != nil {
				return c.operationError("check", err)
			}
			root, ok := m.Roots().RootFor(dst)
			if !ok {
				fmt.Fprintf(c.stdout, "ok: %s is not on a known storage root\n", dst)
				return nil
			}
			fmt.Fprintf(c.stdout, "ok: fits on %s (%s free)\n", root.DisplayName, stats.FormatBytes(root.FreeBytes))
			return nil
		},
	}
}
