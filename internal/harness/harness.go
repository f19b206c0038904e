package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roach88/ipl2sql/internal/clf"
	"github.com/roach88/ipl2sql/internal/ingest"
	"github.com/roach88/ipl2sql/internal/logfile"
	"github.com/roach88/ipl2sql/internal/store"
	"github.com/roach88/ipl2sql/internal/testutil"
)

const defaultRunID = "test-run"

var clockStart = time.Date(2014, time.September, 11, 22, 0, 0, 0, time.UTC)

// Run executes a scenario in a fresh temporary directory and returns the
// result. A non-nil error means the scenario could not be executed; failed
// expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "ipl2sql-harness-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	logPath := filepath.Join(dir, "access.log")
	if err := appendLines(logPath, scenario.Log); err != nil {
		return nil, err
	}
	storeCfg := store.Config{
		Driver:   store.DriverSQLite,
		Database: filepath.Join(dir, "ipl.db"),
		Table:    "access_log",
	}

	prefix := scenario.RunID
	if prefix == "" {
		prefix = defaultRunID
	}
	clock := testutil.NewDeterministicClock(clockStart, time.Second)

	ctx := context.Background()
	result := NewResult()
	for i, step := range scenario.Runs {
		n := i + 1
		if err := appendLines(logPath, step.Append); err != nil {
			return nil, err
		}

		st, err := store.Open(storeCfg, nil)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", n, err)
		}

		opts := step.Options.options()
		opts.Now = clock.Now
		opts.RunIDs = ingest.NewFixedGenerator(fmt.Sprintf("%s-%d", prefix, n))
		opts.OnEvent = func(e ingest.Event) {
			result.Trace = append(result.Trace, traceEvent(n, e))
		}

		res, err := ingest.New(logfile.New(logPath), st, opts, nil).Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", n, err)
		}

		rows, err := countRows(ctx, storeCfg)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", n, err)
		}

		summary := RunSummary{
			RunID:      res.RunID,
			StopReason: res.StopReason,
			Stats:      res.Stats,
			Rows:       rows,
		}
		result.Runs = append(result.Runs, summary)

		if step.Expect != nil {
			for _, msg := range checkExpect(*step.Expect, summary) {
				result.AddError(fmt.Sprintf("run %d: %s", n, msg))
			}
		}
	}

	return result, nil
}

func traceEvent(run int, e ingest.Event) TraceEvent {
	te := TraceEvent{Run: run, Line: e.LineNumber, Outcome: string(e.Outcome)}
	if e.Outcome == ingest.OutcomeParseFailed {
		te.Kind = string(clf.KindOf(e.Err))
	}
	if e.Record != nil {
		te.ID = e.Record.ID
	}
	return te
}

// countRows reports the table size, or zero when no run created it yet.
func countRows(ctx context.Context, cfg store.Config) (int64, error) {
	if _, err := os.Stat(cfg.Database); os.IsNotExist(err) {
		return 0, nil
	}
	st, err := store.Open(cfg, nil)
	if err != nil {
		return 0, err
	}
	defer st.Close()
	return st.Count(ctx)
}

func appendLines(path string, lines []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return nil
}
