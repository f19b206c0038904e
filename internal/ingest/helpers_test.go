package ingest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/ipl2sql/internal/iplog"
	"github.com/roach88/ipl2sql/internal/testutil"
)

var testStart = time.Date(2014, time.September, 11, 22, 0, 0, 0, time.UTC)

// sliceSource yields fixed lines.
type sliceSource struct {
	lines  []string
	idx    int
	closed int
	err    error
}

func newSliceSource(lines ...string) *sliceSource {
	withNewlines := make([]string, len(lines))
	for i, l := range lines {
		withNewlines[i] = l + "\n"
	}
	return &sliceSource{lines: withNewlines}
}

func (s *sliceSource) Next() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.idx >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.idx]
	s.idx++
	return line, nil
}

func (s *sliceSource) Close() error {
	s.closed++
	return nil
}

// memStore is an in-memory RecordStore with failure injection.
type memStore struct {
	rows    []iplog.StoredRecord
	nextID  int64
	probes  int
	appends int
	closed  int

	// probeErr and appendErr, when set, are consulted with the 1-based call
	// number and may return an error for that call.
	probeErr  func(n int) error
	appendErr func(n int) error
}

func (m *memStore) Probe(_ context.Context, rec iplog.StoredRecord) (bool, error) {
	m.probes++
	if m.probeErr != nil {
		if err := m.probeErr(m.probes); err != nil {
			return false, err
		}
	}
	for _, row := range m.rows {
		if row.SameAs(rec) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Append(_ context.Context, rec *iplog.StoredRecord) error {
	m.appends++
	if m.appendErr != nil {
		if err := m.appendErr(m.appends); err != nil {
			return err
		}
	}
	m.nextID++
	rec.ID = m.nextID
	m.rows = append(m.rows, *rec)
	return nil
}

func (m *memStore) Close() error {
	m.closed++
	return nil
}

// testOptions returns insert-enabled options with a fixed clock and run id.
func testOptions() Options {
	opts := DefaultOptions()
	opts.Insert = true
	opts.OriginHost = "www.example.com"
	opts.Now = testutil.NewDeterministicClock(testStart, time.Second).Now
	opts.RunIDs = NewFixedGenerator("run-1")
	return opts
}

// recorder collects events.
type recorder struct {
	events []Event
}

func (r *recorder) record(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) outcomes() []Outcome {
	out := make([]Outcome, len(r.events))
	for i, e := range r.events {
		out[i] = e.Outcome
	}
	return out
}

func bufferLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level}))
}
