package main

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/bamsammich/ferry/internal/config"
)

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the config file",
		// Config commands must work while the file is broken.
		PersistentPreRunE: c.setupLogging,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with every default spelled out",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := c.configFile()
			if err := config.Write(path, config.Default(), force); err != nil {
				if errors.Is(err, config.ErrExists) {
					return fmt.Errorf("%w (use --force to replace it)", err)
				}
				return err
			}
			fmt.Fprintf(c.stdout, "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "replace an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the config file path and its parsed contents",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := c.configFile()
			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			if _, err := cfg.Resolve(); err != nil {
				c.logger.Warn("config is invalid", "error", err)
			}
			fmt.Fprintf(c.stdout, "# %s\n", path)
			return toml.NewEncoder(c.stdout).Encode(cfg)
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func (c *cli) configFile() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.Path()
}
