package ingest

import "time"

// Stats are the per-run counters. They are kept regardless of verbosity.
type Stats struct {
	LinesRead      int64 `json:"lines_read"`
	ParseFailures  int64 `json:"parse_failures"`
	Inserted       int64 `json:"inserted"`
	Duplicates     int64 `json:"duplicates"`
	ProbeFailures  int64 `json:"probe_failures"`
	InsertFailures int64 `json:"insert_failures"`
}

// Accepted is the number of lines that parsed.
func (s Stats) Accepted() int64 {
	return s.LinesRead - s.ParseFailures
}

// StopReason records why a run reached Done.
type StopReason string

const (
	StopEndOfInput    StopReason = "end_of_input"
	StopMaxLines      StopReason = "max_lines"
	StopMaxDuplicates StopReason = "max_duplicates"
	StopParseFailure  StopReason = "parse_failure"
	StopInsertFailure StopReason = "insert_failure"
)

var stopDescriptions = map[StopReason]string{
	StopEndOfInput:    "end of input",
	StopMaxLines:      "maximum line count reached",
	StopMaxDuplicates: "maximum duplicate count exceeded",
	StopParseFailure:  "parse failure with stop-on-parse-failure set",
	StopInsertFailure: "insert failure with stop-on-insert-failure set",
}

// Describe returns a human-readable reason.
func (r StopReason) Describe() string {
	if d, ok := stopDescriptions[r]; ok {
		return d
	}
	return string(r)
}

// Policy reports whether the run was halted by a stop-on-failure policy.
func (r StopReason) Policy() bool {
	return r == StopParseFailure || r == StopInsertFailure
}

// Result is the outcome of a completed run.
type Result struct {
	RunID      string     `json:"run_id"`
	Stats      Stats      `json:"stats"`
	StopReason StopReason `json:"stop_reason"`
	Started    time.Time  `json:"started"`
	Finished   time.Time  `json:"finished"`
}

// Elapsed is the wall-clock duration of the run.
func (r Result) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}
