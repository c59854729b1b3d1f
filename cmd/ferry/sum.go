package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) sumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sum <file>...",
		Short: "Print BLAKE3 checksums of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			m := c.newManager(nil, nil)
			results := m.Checksums(cmd.Context(), paths)

			failed := 0
			for i, r := range results {
				if r.Err != nil {
					c.logger.Error("checksum failed", "path", r.Path, "error", r.Err)
					failed++
					continue
				}
				fmt.Fprintf(c.stdout, "%s  %s\n", r.Sum, args[i])
			}
			return exitFor(failed, len(results))
		},
	}
}
