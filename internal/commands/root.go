// Package commands defines the tempo command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tempo/internal/apperr"
	"github.com/balkashynov/tempo/internal/clock"
	"github.com/balkashynov/tempo/internal/config"
	"github.com/balkashynov/tempo/internal/db"
	"github.com/balkashynov/tempo/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// app carries the state one invocation shares between its commands.
type app struct {
	configFile string
	dbPath     string
	utcOffset  string
	logLevel   string

	cfg      *config.Config
	log      *slog.Logger
	clock    clock.Zoned
	store    *db.Store
	closeLog func() error
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tempo",
		Short: "A project time tracker",
		Long: `tempo records time against projects. One session runs at a time across
all projects; start it from the terminal, the HTTP API or an MCP client.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &apperr.Error{Code: apperr.CodeInvalidArgument, Message: err.Error(), Cause: err}
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/tempo/config.yml)")
	flags.StringVar(&a.dbPath, "db", "", "SQLite database path")
	flags.StringVar(&a.utcOffset, "utc-offset", "", "UTC offset timestamps are recorded in, e.g. +08:00")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newServeCmd(a),
		newMCPCmd(a),
		newProjectCmd(a),
		newStartCmd(a),
		newStopCmd(a),
		newStatusCmd(a),
		newLogCmd(a),
		newStatsCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// load resolves configuration and the logger. The store is opened lazily.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	path := a.configFile
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
	}

	flags := cmd.Flags()
	cfg, err := config.New(
		config.WithFile(path),
		config.WithEnv(),
		config.With(func(c *config.Config) {
			if flags.Changed("db") {
				c.DBPath = a.dbPath
			}
			if flags.Changed("utc-offset") {
				c.UTCOffset = a.utcOffset
			}
			if flags.Changed("log-level") {
				c.LogLevel = a.logLevel
			}
			if flags.Lookup("addr") != nil && flags.Changed("addr") {
				c.Addr, _ = flags.GetString("addr")
			}
		}),
	)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.clock = clock.NewZoned(loc)
	a.log, a.closeLog = logging.New(logging.Options{
		Level:      level,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Writer:     cmd.ErrOrStderr(),
	})
	return nil
}

// open returns the store, opening it on first use.
func (a *app) open() (*db.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := db.Open(a.cfg.DBPath, db.WithClock(a.clock), db.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	a.log.Debug("database opened", "path", a.cfg.DBPath)
	a.store = store
	return store, nil
}

func (a *app) close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.closeLog != nil {
		errs = append(errs, a.closeLog())
	}
	return errors.Join(errs...)
}

// withStore wraps a command function so it runs against the opened store.
func withStore(a *app, fn func(*cobra.Command, []string, *db.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, err := a.open()
		if err != nil {
			return err
		}
		return fn(cmd, args, store)
	}
}

func parseID(arg, what string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Newf(apperr.CodeInvalidArgument, "invalid %s ID '%s'", what, arg)
	}
	return uint(id), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

// Execute runs the root command against the process arguments.
func Execute(ctx context.Context) error {
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}
