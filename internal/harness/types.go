package harness

import "github.com/roach88/ipl2sql/internal/ingest"

// TraceEvent is one runner event, reduced to its stable fields.
type TraceEvent struct {
	Run     int    `json:"run"`
	Line    int64  `json:"line"`
	Outcome string `json:"outcome"`
	Kind    string `json:"kind,omitempty"`
	ID      int64  `json:"id,omitempty"`
}

// RunSummary is the outcome of one run step.
type RunSummary struct {
	RunID      string            `json:"run_id"`
	StopReason ingest.StopReason `json:"stop_reason"`
	Stats      ingest.Stats      `json:"stats"`
	Rows       int64             `json:"rows"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause matched.
	Pass bool `json:"pass"`

	Runs  []RunSummary `json:"runs"`
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Runs:   []RunSummary{},
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
