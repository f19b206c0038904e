package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ipl2sql/internal/clf"
	"github.com/roach88/ipl2sql/internal/iplog"
)

// ParseResult is the outcome for one line given to the parse command.
type ParseResult struct {
	Line   string        `json:"line"`
	Record *iplog.Record `json:"record,omitempty"`
	Error  *CLIError     `json:"error,omitempty"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [line...]",
		Short: "Validate access log lines without a store",
		Long: `Parse each argument as one access log line, or each line of standard
input when no arguments are given, and report the fields or the rejection.

Exits 1 when any line is rejected.

Example:
  ipl2sql parse '66.249.67.3 - - [15/Jul/2014:05:44:40 -0700] "GET / HTTP/1.1" 200 60 "-" "curl"'
  tail -n 100 access.log | ipl2sql parse --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runParse(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}

	lines := args
	if len(lines) == 0 {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return formatter.fail(ExitInputError, ErrCodeInput, "failed to read standard input", err)
		}
	}

	results := make([]ParseResult, 0, len(lines))
	rejected := 0
	for _, line := range lines {
		rec, err := clf.Parse(line)
		if err != nil {
			rejected++
			results = append(results, ParseResult{
				Line:  line,
				Error: &CLIError{Code: ErrCodeParse, Message: err.Error(), Details: clf.KindOf(err)},
			})
			continue
		}
		results = append(results, ParseResult{Line: line, Record: &rec})
	}

	if opts.Format == "json" {
		if err := formatter.Success(results); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for i, r := range results {
			if r.Error != nil {
				fmt.Fprintf(w, "%d: rejected %s\n", i+1, r.Error.Message)
				continue
			}
			fmt.Fprintf(w, "%d: ok %s\n", i+1, describeRecord(*r.Record))
		}
	}

	if rejected > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d lines rejected", rejected, len(results)))
	}
	return nil
}

func describeRecord(rec iplog.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ip=%s time=%q request=%q status=%d", rec.IPAddress, rec.LogDateTime, rec.MethodURI, rec.Status)
	if rec.PageSize == iplog.PageSizeUnavailable {
		b.WriteString(" size=-")
	} else {
		fmt.Fprintf(&b, " size=%d", rec.PageSize)
	}
	fmt.Fprintf(&b, " referer=%q agent=%q", rec.Referer, rec.Agent)
	return b.String()
}
