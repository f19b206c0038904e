package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/ipl2sql/internal/ingest"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution, including runs halted by a stop policy
	ExitFailure      = 1 // Unexpected failure, or rejected lines in parse
	ExitCommandError = 2 // Command error (bad flags, invalid configuration)
	ExitInputError   = 3 // Log file could not be opened or read
	ExitStoreError   = 4 // Store could not be opened or connected
)

// Error codes used in CLI responses.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeConfig        = "E002" // Configuration could not be loaded
	ErrCodeInvalidConfig = "E003" // Configuration failed validation
	ErrCodeInput         = "E004" // Log file error
	ErrCodeStore         = "E005" // Store error
	ErrCodeParse         = "E006" // Line rejected by the parser
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for errors in text mode (defaults to Writer)
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
// JSON errors go to Writer so the envelope stays on one stream.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// fail reports an error through the formatter and returns the matching
// ExitError.
func (f *OutputFormatter) fail(exitCode int, code, message string, err error) error {
	var details any
	if err != nil {
		details = err.Error()
	}
	_ = f.Error(code, message, details)
	return WrapExitError(exitCode, message, err)
}

// Summary is the end-of-run report.
type Summary struct {
	RunID      string            `json:"run_id"`
	Insert     bool              `json:"insert"`
	StopReason ingest.StopReason `json:"stop_reason"`
	Elapsed    string            `json:"elapsed"`
	Stats      ingest.Stats      `json:"stats"`
}

// NewSummary builds the report for a completed run.
func NewSummary(res ingest.Result, insert bool) Summary {
	return Summary{
		RunID:      res.RunID,
		Insert:     insert,
		StopReason: res.StopReason,
		Elapsed:    formatElapsed(res.Elapsed()),
		Stats:      res.Stats,
	}
}

// WriteText renders the summary for people. Counts use digit grouping.
func (s Summary) WriteText(w io.Writer) error {
	p := message.NewPrinter(language.English)

	mode := "dry run, insert not enabled"
	if s.Insert {
		mode = "insert"
	}

	lines := []struct {
		format string
		args   []any
	}{
		{"SUMMARY\n", nil},
		{"  Run ID: %s\n", []any{s.RunID}},
		{"  Mode: %s\n", []any{mode}},
		{"  Stopped: %s\n", []any{s.StopReason.Describe()}},
		{"  Elapsed time (hr:min:sec): %s\n", []any{s.Elapsed}},
		{"\n  Totals\n", nil},
		{"    Log lines read: %d\n", []any{s.Stats.LinesRead}},
		{"    Parse or validation errors: %d\n", []any{s.Stats.ParseFailures}},
		{"    Records inserted: %d\n", []any{s.Stats.Inserted}},
		{"    Duplicates skipped: %d\n", []any{s.Stats.Duplicates}},
		{"    Duplicate probe errors: %d\n", []any{s.Stats.ProbeFailures}},
		{"    Insert errors: %d\n", []any{s.Stats.InsertFailures}},
	}
	for _, l := range lines {
		if _, err := p.Fprintf(w, l.format, l.args...); err != nil {
			return err
		}
	}
	return nil
}

// formatElapsed renders d as hh:mm:ss. Hours are not capped at 24.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}
