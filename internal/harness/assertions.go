package harness

import "fmt"

// checkExpect compares a run summary against the expected subset and
// returns one message per mismatch.
func checkExpect(want ExpectClause, got RunSummary) []string {
	var errs []string

	if want.StopReason != "" && want.StopReason != string(got.StopReason) {
		errs = append(errs, fmt.Sprintf("stop_reason: expected %s, got %s", want.StopReason, got.StopReason))
	}

	counters := []struct {
		name string
		want *int64
		got  int64
	}{
		{"lines_read", want.LinesRead, got.Stats.LinesRead},
		{"parse_failures", want.ParseFailures, got.Stats.ParseFailures},
		{"inserted", want.Inserted, got.Stats.Inserted},
		{"duplicates", want.Duplicates, got.Stats.Duplicates},
		{"probe_failures", want.ProbeFailures, got.Stats.ProbeFailures},
		{"insert_failures", want.InsertFailures, got.Stats.InsertFailures},
		{"rows", want.Rows, got.Rows},
	}
	for _, c := range counters {
		if c.want != nil && *c.want != c.got {
			errs = append(errs, fmt.Sprintf("%s: expected %d, got %d", c.name, *c.want, c.got))
		}
	}

	return errs
}
