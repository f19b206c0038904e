package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/ipl2sql/internal/ingest"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format    string // "json" | "text"
	Verbosity string // "all" | "gen" | "log" | "silent"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ipl2sql CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(nil)
}

// newRootCommand builds the command tree. configure, when set, adjusts the
// ingest options before flags are bound (for testing).
func newRootCommand(configure func(*IngestOptions)) *cobra.Command {
	opts := &RootOptions{}
	ingestOpts := &IngestOptions{RootOptions: opts}
	if configure != nil {
		configure(ingestOpts)
	}

	cmd := &cobra.Command{
		Use:   "ipl2sql",
		Short: "ipl2sql - access log to SQL loader",
		Long: `Load Apache Combined Log Format access logs into a SQL table.

Lines that fail validation are skipped. Records already present in the
table are skipped, so a log can be loaded again after it has grown.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if _, err := ingest.ParseVerbosity(opts.Verbosity); err != nil {
				return err
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Verbosity, "vmode", "gen", "verbosity (all|gen|log|silent)")

	// Add subcommands
	cmd.AddCommand(newIngestCommand(ingestOpts))
	cmd.AddCommand(NewParseCommand(opts))

	return cmd
}

// Execute runs cmd with args and returns the process exit code. Errors not
// already reported by a command are written to errOut.
func Execute(cmd *cobra.Command, args []string, errOut io.Writer) int {
	if args != nil {
		cmd.SetArgs(args)
	}
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	// Flag and argument errors from cobra.
	fmt.Fprintln(errOut, "Error:", err)
	return ExitCommandError
}

// Main is the entry point used by cmd/ipl2sql.
func Main() int {
	return Execute(NewRootCommand(), nil, os.Stderr)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
