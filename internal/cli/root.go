package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/clientbook/internal/config"
	"github.com/roach88/clientbook/internal/store"
)

// RootOptions holds global flags for all commands, and the per-invocation
// state derived from them before a subcommand runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	NoColor    bool
	ConfigPath string
	Database   string
	Driver     string

	// TraceIDs allows overriding the trace id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	TraceIDs TraceIDGenerator

	config  *config.Config
	logger  *slog.Logger
	traceID string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the clientbook CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clientbook",
		Short: "clientbook - a client contact store",
		Long: `Manage client records (names, email and phone numbers) in a SQLite database.

Configuration is read from --config (YAML or TOML); --db and --driver
override the database settings from the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored text output")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML or TOML config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", config.DefaultName, "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", config.DefaultDriver, "database driver (sqlite3|sqlite)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, ErrCodeInvalidInput, "invalid flags", err)
	})

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewDemoCommand(opts))

	return cmd
}

// Execute runs the command line with args and returns the process exit
// code. Errors are reported through the output formatter.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, &RootOptions{}, args, stdout, stderr)
}

func execute(ctx context.Context, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	f := opts.formatter(stdout, stderr)
	if !isValidFormat(f.Format) {
		f.Format = "text"
	}
	f.Error(GetErrorCode(err), err.Error(), nil)
	if opts.logger != nil {
		opts.logger.Debug("command failed", "error", err)
	}
	return GetExitCode(err)
}

// setup validates global flags, loads the configuration and creates the
// logger. Runs before every subcommand.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, ErrCodeInvalidInput,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, ErrCodeConfig, "failed to load config", err)
		}
		cfg = loaded
	}

	// Flags given on the command line win over the file.
	flags := cmd.Flags()
	if o.ConfigPath == "" || flags.Changed("db") {
		cfg.Database.Name = o.Database
	}
	if o.ConfigPath == "" || flags.Changed("driver") {
		cfg.Database.Driver = o.Driver
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	o.config = cfg

	generator := o.TraceIDs
	if generator == nil {
		generator = UUIDv7Generator{}
	}
	o.traceID = generator.Generate()

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Logging, o.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeConfig, "invalid logging configuration", err)
	}
	o.logger = logger.With("trace_id", o.traceID, "command", cmd.Name())
	return nil
}

// newLogger builds the slog logger for an invocation. --verbose forces the
// debug level.
func newLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}

// openStore opens the configured database. The caller closes it.
func (o *RootOptions) openStore() (*store.Store, error) {
	storeCfg := o.config.StoreConfig()
	o.logger.Debug("opening database", "driver", storeCfg.Driver, "name", storeCfg.Name)

	st, err := store.Open(storeCfg)
	if err != nil {
		return nil, storeError("failed to open database", err)
	}
	return st, nil
}

// closeStore closes st, logging rather than returning a failure since the
// command's result has already been produced.
func (o *RootOptions) closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		o.logger.Warn("closing database", "error", err)
	}
}

func (o *RootOptions) formatter(stdout, stderr io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    stdout,
		ErrWriter: stderr,
		Verbose:   o.Verbose,
		NoColor:   o.NoColor,
		TraceID:   o.traceID,
	}
}

// output returns the formatter for cmd's writers.
func (o *RootOptions) output(cmd *cobra.Command) *OutputFormatter {
	return o.formatter(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
