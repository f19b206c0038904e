package ingest

import (
	"log/slog"
	"strings"

	"github.com/roach88/ipl2sql/internal/clf"
	"github.com/roach88/ipl2sql/internal/iplog"
)

// Outcome classifies what happened to one line.
type Outcome string

const (
	// OutcomeParsed: the line was accepted and inserts are disabled.
	OutcomeParsed Outcome = "parsed"
	// OutcomeParseFailed: the line was rejected by the parser.
	OutcomeParseFailed Outcome = "parse_failed"
	// OutcomeDuplicate: Probe found the record; no insert was attempted.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeProbeFailed: Probe errored; the record is treated as new.
	OutcomeProbeFailed Outcome = "probe_failed"
	// OutcomeInserted: the record was appended.
	OutcomeInserted Outcome = "inserted"
	// OutcomeInsertFailed: Append errored.
	OutcomeInsertFailed Outcome = "insert_failed"
)

var outcomeMessages = map[Outcome]string{
	OutcomeParsed:       "line accepted, insert not enabled",
	OutcomeParseFailed:  "line rejected",
	OutcomeDuplicate:    "duplicate skipped",
	OutcomeProbeFailed:  "duplicate probe failed, treating record as new",
	OutcomeInserted:     "record inserted",
	OutcomeInsertFailed: "record insert failed",
}

// Event is one classified outcome. Record is nil for rejected lines.
type Event struct {
	Outcome    Outcome
	LineNumber int64
	Line       string
	Record     *iplog.StoredRecord
	Err        error
}

// Level is the slog level the event is logged at. Rejected method fields are
// raised to warn when items of interest are requested.
func (e Event) Level(itemsOfInterest bool) slog.Level {
	switch e.Outcome {
	case OutcomeProbeFailed, OutcomeInsertFailed:
		return slog.LevelWarn
	case OutcomeParseFailed:
		if itemsOfInterest && clf.KindOf(e.Err) == clf.KindInvalidMethod {
			return slog.LevelWarn
		}
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Message is the log message for the event.
func (e Event) Message() string {
	return outcomeMessages[e.Outcome]
}

func (e Event) attrs() []any {
	args := []any{"line", e.LineNumber}
	if e.Outcome == OutcomeParseFailed {
		args = append(args, "kind", clf.KindOf(e.Err), "text", strings.TrimRight(e.Line, "\r\n"))
	}
	if e.Record != nil {
		if e.Record.ID != 0 {
			args = append(args, "id", e.Record.ID)
		}
		args = append(args,
			"ip", e.Record.IPAddress,
			"datetime", e.Record.LogDateTime,
			"method_uri", e.Record.MethodURI,
			"status", e.Record.Status,
			"page_size", e.Record.PageSize,
		)
		if e.Outcome == OutcomeInsertFailed {
			args = append(args,
				"referer", e.Record.Referer,
				"agent", e.Record.Agent,
				"origin_host", e.Record.OriginHost,
				"insertion_time", e.Record.InsertionTime,
			)
		}
	}
	if e.Err != nil {
		args = append(args, "error", e.Err)
	}
	return args
}
