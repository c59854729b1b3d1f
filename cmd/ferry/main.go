package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bamsammich/ferry/internal/config"
	"github.com/bamsammich/ferry/internal/engine"
	"github.com/bamsammich/ferry/internal/event"
	"github.com/bamsammich/ferry/internal/manager"
	"github.com/bamsammich/ferry/internal/stats"
	"github.com/bamsammich/ferry/internal/storage"
	"github.com/bamsammich/ferry/internal/ui"
	"github.com/bamsammich/ferry/internal/vfs"
)

var version = "dev"

func main() {
	c := &cli{
		stdout: os.Stdout,
		stderr: os.Stderr,
		isTTY:  ui.IsTTY(os.Stderr.Fd()),
		color:  ui.IsTTY(os.Stdout.Fd()),
		width:  ui.TermWidth(os.Stderr.Fd()),
	}
	os.Exit(c.execute(os.Args[1:]))
}

// cli carries global flags and the state every subcommand shares.
type cli struct {
	stdout io.Writer
	stderr io.Writer
	isTTY  bool // stderr is a terminal; selects the live presenter
	color  bool // stdout is a terminal; styles listings
	width  int  // stderr columns, 0 when unknown

	// Test hooks; nil means the local filesystem and statfs.
	fs     vfs.FS
	prober storage.Prober

	configPath  string
	fsLimit     int
	verbose     bool
	quiet       bool
	logFile     string
	showVersion bool

	settings config.Settings
	logger   *slog.Logger
	closeLog func()
}

// execute runs the command line and returns the process exit code:
// 0 on success, 1 when a batch partly failed, 2 otherwise.
func (c *cli) execute(args []string) int {
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	err := root.Execute()
	if c.closeLog != nil {
		c.closeLog()
	}
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	fmt.Fprintf(c.stderr, "Error: %v\n", err)
	return 2
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ferry",
		Short: "Copy, move and delete file trees with bounded concurrency",
		Long: `ferry manages files across the home directory and any extra storage
roots listed in the config file. Copies and moves never overwrite: a
colliding name gets a numbered suffix such as "photo (copy 1).jpg".
Copies are refused up front when the destination volume lacks space.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.showVersion {
				fmt.Fprintf(c.stdout, "ferry %s\n", version)
				return nil
			}
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default: "+config.Path()+")")
	pf.IntVar(&c.fsLimit, "fs-limit", 0, "maximum concurrent filesystem operations (default from config)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "verbose output")
	pf.BoolVarP(&c.quiet, "quiet", "q", false, "suppress all output except errors")
	pf.StringVar(&c.logFile, "log", "", "write structured JSON log to `file`")
	root.Flags().BoolVar(&c.showVersion, "version", false, "print version and exit")

	root.AddCommand(
		c.lsCmd(),
		c.statCmd(),
		c.mkdirCmd(),
		c.cpCmd(),
		c.mvCmd(),
		c.renameCmd(),
		c.rmCmd(),
		c.checkCmd(),
		c.rootsCmd(),
		c.sumCmd(),
		c.configCmd(),
		docsCmd(),
	)
	return root
}

// setup loads configuration and logging before any operation command.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := c.setupLogging(cmd, nil); err != nil {
		return err
	}

	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c.settings, err = cfg.Resolve()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cmd.Flags().Changed("fs-limit") {
		if c.fsLimit < 1 {
			return fmt.Errorf("--fs-limit must be at least 1")
		}
		c.settings.FSLimit = c.fsLimit
	}
	c.logger.Debug("settings resolved",
		"roots", c.settings.Roots,
		"fs_limit", c.settings.FSLimit,
		"default_limit", c.settings.DefaultLimit,
	)
	return nil
}

// setupLogging installs a text handler on stderr, teed to a JSON file
// when --log is given.
func (c *cli) setupLogging(_ *cobra.Command, _ []string) error {
	if c.logger != nil {
		return nil
	}
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	} else if !c.quiet {
		level = slog.LevelInfo
	}

	var handler slog.Handler = slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level})
	if c.logFile != "" {
		if err := os.MkdirAll(filepath.Dir(c.logFile), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		lf, err := os.Create(c.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		c.closeLog = func() { lf.Close() }
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
		handler = ui.NewMultiHandler(handler, jsonHandler)
	}
	c.logger = slog.New(handler)
	slog.SetDefault(c.logger)
	return nil
}

func (c *cli) newManager(events chan<- event.Event, st stats.Writer) *manager.Manager {
	return manager.New(manager.Options{
		FS:       c.fs,
		Prober:   c.prober,
		Events:   events,
		Stats:    st,
		Logger:   c.logger,
		Settings: c.settings,
	})
}

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// operationError logs err and maps it to an exit code: 1 when a batch
// partly succeeded, 2 when nothing did.
func (c *cli) operationError(op string, err error) error {
	if err == nil {
		return nil
	}
	c.logger.Error(op+" failed", "error", err)

	var batch *engine.BatchError
	if errors.As(err, &batch) && batch.Partial() {
		return &exitError{code: 1}
	}
	return &exitError{code: 2}
}

func absPaths(args []string) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		p, err := filepath.Abs(a)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", a, err)
		}
		out[i] = p
	}
	return out, nil
}
