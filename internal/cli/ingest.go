package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ipl2sql/internal/config"
	"github.com/roach88/ipl2sql/internal/ingest"
	"github.com/roach88/ipl2sql/internal/logfile"
	"github.com/roach88/ipl2sql/internal/store"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	ConfigFile string
	EnvFile    string

	// flags receives flag values; only flags the user set are copied over
	// the loaded configuration.
	flags config.Config

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs ingest.RunIDGenerator

	// Clock allows overriding the wall clock (for testing).
	// If nil, defaults to time.Now.
	Clock func() time.Time
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}
	return newIngestCommand(opts)
}

func newIngestCommand(opts *IngestOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load an access log into the store",
		Long: `Read an access log line by line, validate each line and, with --insert,
append every record not already present in the table.

Settings come from --config, then .env and IPL2SQL_* variables, then flags.
Without --insert the log is only parsed and the store is never opened.

Example:
  ipl2sql ingest --file access.log --driver sqlite3 --db-name ipl.db \
    --table access_log --origin-host www.example.com --insert
  ipl2sql ingest --config ipl2sql.yaml --newest-first --max-duplicates 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ConfigFile, "config", "", "path to YAML configuration file")
	f.StringVar(&opts.EnvFile, "env-file", ".env", "path to .env file (ignored when missing)")

	f.StringVarP(&opts.flags.File, "file", "f", "", "access log file to read")
	f.StringVar(&opts.flags.Driver, "driver", string(store.DriverSQLite), "store driver (sqlite3|mysql)")
	f.StringVar(&opts.flags.Host, "db-host", "", "database host, host:port, or unix socket path")
	f.StringVar(&opts.flags.User, "db-user", "", "database user")
	f.StringVar(&opts.flags.Password, "db-password", "", "database password")
	f.StringVar(&opts.flags.Database, "db-name", "", "database name, or file path for sqlite3")
	f.StringVar(&opts.flags.Table, "table", "", "table name")
	f.StringVar(&opts.flags.OriginHost, "origin-host", "", "name of the server that wrote the log")

	f.BoolVar(&opts.flags.Insert, "insert", false, "insert records (without it the run is a dry run)")
	f.Int64Var(&opts.flags.MaxLines, "max-lines", ingest.Unbounded, "stop after this many lines (-1 for no limit)")
	f.Int64Var(&opts.flags.MaxDuplicates, "max-duplicates", ingest.Unbounded, "stop once more than this many duplicates are found (-1 for no limit)")
	f.BoolVar(&opts.flags.NewestFirst, "newest-first", false, "probe and insert the newest lines first")
	f.BoolVar(&opts.flags.ParseBreak, "pbrk", false, "stop at the first line that fails to parse")
	f.BoolVar(&opts.flags.InsertBreak, "ibrk", false, "stop at the first failed insert")
	f.BoolVar(&opts.flags.ItemsOfInterest, "ioi", false, "report rejected method fields even below general verbosity")

	return cmd
}

// applyFlags copies explicitly set flags over cfg.
func (o *IngestOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	set := func(name string, apply func()) {
		if changed(name) {
			apply()
		}
	}

	set("file", func() { cfg.File = o.flags.File })
	set("driver", func() { cfg.Driver = o.flags.Driver })
	set("db-host", func() { cfg.Host = o.flags.Host })
	set("db-user", func() { cfg.User = o.flags.User })
	set("db-password", func() { cfg.Password = o.flags.Password })
	set("db-name", func() { cfg.Database = o.flags.Database })
	set("table", func() { cfg.Table = o.flags.Table })
	set("origin-host", func() { cfg.OriginHost = o.flags.OriginHost })
	set("insert", func() { cfg.Insert = o.flags.Insert })
	set("max-lines", func() { cfg.MaxLines = o.flags.MaxLines })
	set("max-duplicates", func() { cfg.MaxDuplicates = o.flags.MaxDuplicates })
	set("newest-first", func() { cfg.NewestFirst = o.flags.NewestFirst })
	set("pbrk", func() { cfg.ParseBreak = o.flags.ParseBreak })
	set("ibrk", func() { cfg.InsertBreak = o.flags.InsertBreak })
	set("ioi", func() { cfg.ItemsOfInterest = o.flags.ItemsOfInterest })
	set("vmode", func() { cfg.Verbosity = o.Verbosity })
}

func runIngest(opts *IngestOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}

	cfg, err := config.Load(opts.ConfigFile, opts.EnvFile)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeConfig, "failed to load configuration", err)
	}
	opts.applyFlags(cmd, &cfg)

	if errs := cfg.Validate(); len(errs) > 0 {
		_ = formatter.Error(ErrCodeInvalidConfig, "invalid configuration", errs)
		return WrapExitError(ExitCommandError, "invalid configuration", config.Err(errs))
	}

	verbosity, err := ingest.ParseVerbosity(cfg.Verbosity)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeInvalidConfig, "invalid configuration", err)
	}
	logger := slog.New(verbosity.Handler(cmd.ErrOrStderr()))
	logger.Info("settings", "config", cfg)

	runOpts, err := cfg.IngestOptions()
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeInvalidConfig, "invalid configuration", err)
	}
	runOpts.Now = opts.Clock
	runOpts.RunIDs = opts.RunIDs

	// A dry run never opens the store.
	var st ingest.RecordStore
	if cfg.Insert {
		s, err := store.Open(cfg.StoreConfig(), logger)
		if err != nil {
			return formatter.fail(ExitStoreError, ErrCodeStore, "failed to open store", err)
		}
		st = s
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := ingest.New(logfile.New(cfg.File), st, runOpts, logger).Run(ctx)
	switch {
	case logfile.IsOpenError(err):
		return formatter.fail(ExitInputError, ErrCodeInput, "cannot continue, log file unavailable", err)
	case store.IsConnectError(err):
		return formatter.fail(ExitStoreError, ErrCodeStore, "cannot continue, store unavailable", err)
	case err != nil:
		return formatter.fail(ExitFailure, ErrCodeGeneric, "ingest failed", err)
	}

	summary := NewSummary(res, cfg.Insert)
	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	if verbosity.ShowsSummary() {
		return summary.WriteText(cmd.OutOrStdout())
	}
	return nil
}
