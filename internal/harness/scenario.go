package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ipl2sql/internal/ingest"
)

// Scenario describes a log file and a sequence of ingest runs over it.
type Scenario struct {
	// Name uniquely identifies this scenario. Used as the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunID prefixes the run ids. Defaults to "test-run".
	RunID string `yaml:"run_id,omitempty"`

	// Log holds the initial lines of the log file.
	Log []string `yaml:"log"`

	// Runs execute in order against one database.
	Runs []RunStep `yaml:"runs"`
}

// RunStep is one ingest run.
type RunStep struct {
	// Append lines are added to the log file before the run starts.
	Append []string `yaml:"append,omitempty"`

	Options RunOptions `yaml:"options"`

	// Expect, if set, is checked against the run's result.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// RunOptions mirror the ingest flags. Nil limits are unbounded.
type RunOptions struct {
	Insert        bool   `yaml:"insert"`
	OriginHost    string `yaml:"origin_host,omitempty"`
	MaxLines      *int64 `yaml:"max_lines,omitempty"`
	MaxDuplicates *int64 `yaml:"max_duplicates,omitempty"`
	NewestFirst   bool   `yaml:"newest_first,omitempty"`
	ParseBreak    bool   `yaml:"parse_break,omitempty"`
	InsertBreak   bool   `yaml:"insert_break,omitempty"`
}

// ExpectClause lists expected counters. Only specified fields are validated.
type ExpectClause struct {
	StopReason     string `yaml:"stop_reason,omitempty"`
	LinesRead      *int64 `yaml:"lines_read,omitempty"`
	ParseFailures  *int64 `yaml:"parse_failures,omitempty"`
	Inserted       *int64 `yaml:"inserted,omitempty"`
	Duplicates     *int64 `yaml:"duplicates,omitempty"`
	ProbeFailures  *int64 `yaml:"probe_failures,omitempty"`
	InsertFailures *int64 `yaml:"insert_failures,omitempty"`

	// Rows is the table row count after the run.
	Rows *int64 `yaml:"rows,omitempty"`
}

const defaultOriginHost = "www.example.com"

// options converts the step options for the runner.
func (o RunOptions) options() ingest.Options {
	opts := ingest.DefaultOptions()
	opts.Insert = o.Insert
	opts.OriginHost = o.OriginHost
	if opts.OriginHost == "" {
		opts.OriginHost = defaultOriginHost
	}
	if o.MaxLines != nil {
		opts.MaxLines = *o.MaxLines
	}
	if o.MaxDuplicates != nil {
		opts.MaxDuplicates = *o.MaxDuplicates
	}
	opts.NewestFirst = o.NewestFirst
	opts.StopOnParseFailure = o.ParseBreak
	opts.StopOnInsertFailure = o.InsertBreak
	return opts
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "expects:" vs "expect:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Runs) == 0 {
		return fmt.Errorf("runs list is required and must be non-empty")
	}

	for i, run := range s.Runs {
		if run.Options.MaxLines != nil && *run.Options.MaxLines < ingest.Unbounded {
			return fmt.Errorf("runs[%d]: max_lines must be -1 or greater", i)
		}
		if run.Options.MaxDuplicates != nil && *run.Options.MaxDuplicates < ingest.Unbounded {
			return fmt.Errorf("runs[%d]: max_duplicates must be -1 or greater", i)
		}
		if run.Expect != nil && run.Expect.StopReason != "" {
			if ingest.StopReason(run.Expect.StopReason).Describe() == run.Expect.StopReason {
				return fmt.Errorf("runs[%d].expect: unknown stop_reason %q", i, run.Expect.StopReason)
			}
		}
	}

	return nil
}
