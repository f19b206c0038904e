package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/ipl2sql/internal/clf"
	"github.com/roach88/ipl2sql/internal/iplog"
	"github.com/roach88/ipl2sql/internal/store"
)

// Unbounded disables MaxLines or MaxDuplicates.
const Unbounded int64 = -1

// LineSource yields raw lines and io.EOF at the end.
type LineSource interface {
	Next() (string, error)
	Close() error
}

// RecordStore is the duplicate-aware sink. Probe must run before Append.
type RecordStore interface {
	Probe(ctx context.Context, rec iplog.StoredRecord) (bool, error)
	Append(ctx context.Context, rec *iplog.StoredRecord) error
	Close() error
}

// Options configure a run. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// OriginHost labels every stored record with the server that wrote the log.
	OriginHost string

	// Insert enables the store. When false the run is a dry run and the store
	// is never touched.
	Insert bool

	// MaxLines stops the run after this many lines are read. Unbounded reads
	// to end of input.
	MaxLines int64

	// MaxDuplicates stops the run once more than this many duplicates were
	// found. Unbounded never stops on duplicates.
	MaxDuplicates int64

	// NewestFirst reverses the accepted records before probing.
	NewestFirst bool

	StopOnParseFailure  bool
	StopOnInsertFailure bool

	// ItemsOfInterest raises rejected method fields to warn level.
	ItemsOfInterest bool

	// Now stamps insertion times. Defaults to time.Now.
	Now func() time.Time

	// RunIDs names the run. Defaults to UUIDv7Generator.
	RunIDs RunIDGenerator

	// OnEvent, if set, receives every event after it is logged.
	OnEvent func(Event)
}

// DefaultOptions returns a dry-run configuration with no limits.
func DefaultOptions() Options {
	return Options{
		MaxLines:      Unbounded,
		MaxDuplicates: Unbounded,
	}
}

// Runner executes one ingest run. A Runner is single use.
type Runner struct {
	src    LineSource
	store  RecordStore
	opts   Options
	logger *slog.Logger
	runID  string
	stats  Stats
}

// New creates a Runner. st may be nil for dry runs.
func New(src LineSource, st RecordStore, opts Options, logger *slog.Logger) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RunIDs == nil {
		opts.RunIDs = UUIDv7Generator{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	runID := opts.RunIDs.Generate()

	return &Runner{
		src:    src,
		store:  st,
		opts:   opts,
		logger: logger.With("run_id", runID),
		runID:  runID,
	}
}

// RunID returns the identifier of this run.
func (r *Runner) RunID() string {
	return r.runID
}

// pending is an accepted record waiting for the store.
type pending struct {
	lineNumber int64
	line       string
	record     iplog.Record
}

// Run processes the source until a stop condition. The source and store are
// closed before Run returns, on every path.
//
// A non-nil error means the run was aborted by a fatal condition (source
// open failure or store connect failure); the returned Result still carries
// the counters up to that point.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	defer r.release()

	res := Result{RunID: r.runID, Started: r.opts.Now()}
	if r.opts.Insert && r.store == nil {
		return res, errors.New("insert enabled without a store")
	}

	r.logger.Info("ingest started",
		"insert", r.opts.Insert,
		"newest_first", r.opts.NewestFirst,
		"max_lines", r.opts.MaxLines,
		"max_duplicates", r.opts.MaxDuplicates,
	)

	reason, err := r.run(ctx)

	res.Stats = r.stats
	res.StopReason = reason
	res.Finished = r.opts.Now()
	if err != nil {
		r.logger.Error("ingest aborted", "error", err)
		return res, err
	}

	if reason.Policy() {
		r.logger.Warn("ingest stopped by policy", "reason", reason.Describe())
	}
	r.logger.Info("ingest finished",
		"reason", reason,
		"lines_read", r.stats.LinesRead,
		"parse_failures", r.stats.ParseFailures,
		"inserted", r.stats.Inserted,
		"duplicates", r.stats.Duplicates,
		"insert_failures", r.stats.InsertFailures,
	)
	return res, nil
}

func (r *Runner) run(ctx context.Context) (StopReason, error) {
	var queue []pending
	reason := StopEndOfInput

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if r.opts.MaxLines >= 0 && r.stats.LinesRead >= r.opts.MaxLines {
			reason = StopMaxLines
			break
		}

		line, err := r.src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read line %d: %w", r.stats.LinesRead+1, err)
		}
		r.stats.LinesRead++
		n := r.stats.LinesRead

		rec, err := clf.Parse(line)
		if err != nil {
			r.stats.ParseFailures++
			r.emit(ctx, Event{Outcome: OutcomeParseFailed, LineNumber: n, Line: line, Err: err})
			if r.opts.StopOnParseFailure {
				return StopParseFailure, nil
			}
			continue
		}

		p := pending{lineNumber: n, line: line, record: rec}
		if !r.opts.Insert {
			stored := iplog.NewStoredRecord(rec, r.opts.OriginHost, r.opts.Now())
			r.emit(ctx, Event{Outcome: OutcomeParsed, LineNumber: n, Line: line, Record: &stored})
			continue
		}
		if r.opts.NewestFirst {
			queue = append(queue, p)
			continue
		}

		if stop, err := r.deliver(ctx, p); err != nil || stop != "" {
			return stop, err
		}
	}

	for i := len(queue) - 1; i >= 0; i-- {
		if stop, err := r.deliver(ctx, queue[i]); err != nil || stop != "" {
			return stop, err
		}
	}

	return reason, nil
}

// deliver runs the probe-then-append protocol for one record. It returns a
// non-empty StopReason when the run must halt.
func (r *Runner) deliver(ctx context.Context, p pending) (StopReason, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rec := iplog.NewStoredRecord(p.record, r.opts.OriginHost, r.opts.Now())

	found, err := r.store.Probe(ctx, rec)
	switch {
	case store.IsConnectError(err):
		return "", err
	case err != nil:
		r.stats.ProbeFailures++
		r.emit(ctx, Event{Outcome: OutcomeProbeFailed, LineNumber: p.lineNumber, Line: p.line, Record: &rec, Err: err})
	case found:
		r.stats.Duplicates++
		r.emit(ctx, Event{Outcome: OutcomeDuplicate, LineNumber: p.lineNumber, Line: p.line, Record: &rec})
		if r.opts.MaxDuplicates >= 0 && r.stats.Duplicates > r.opts.MaxDuplicates {
			return StopMaxDuplicates, nil
		}
		return "", nil
	}

	if err := r.store.Append(ctx, &rec); err != nil {
		if store.IsConnectError(err) {
			return "", err
		}
		r.stats.InsertFailures++
		r.emit(ctx, Event{Outcome: OutcomeInsertFailed, LineNumber: p.lineNumber, Line: p.line, Record: &rec, Err: err})
		if r.opts.StopOnInsertFailure {
			return StopInsertFailure, nil
		}
		return "", nil
	}

	r.stats.Inserted++
	r.emit(ctx, Event{Outcome: OutcomeInserted, LineNumber: p.lineNumber, Line: p.line, Record: &rec})
	return "", nil
}

func (r *Runner) emit(ctx context.Context, e Event) {
	r.logger.Log(ctx, e.Level(r.opts.ItemsOfInterest), e.Message(), e.attrs()...)
	if r.opts.OnEvent != nil {
		r.opts.OnEvent(e)
	}
}

// release closes the source and the store. Close errors are logged only.
func (r *Runner) release() {
	if r.src != nil {
		if err := r.src.Close(); err != nil {
			r.logger.Warn("error closing log file", "error", err)
		}
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.logger.Warn("error closing store", "error", err)
		}
	}
}
