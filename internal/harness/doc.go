// Package harness runs ingest scenarios end to end against a real sqlite
// store.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: grown_log
//	description: "A log that grew between runs only loads its new lines"
//	run_id: grown
//	log:
//	  - '66.249.67.3 - - [15/Jul/2014:05:44:40 -0700] "GET / HTTP/1.1" 200 60 "-" "x"'
//	runs:
//	  - options: { insert: true }
//	    expect: { inserted: 1, rows: 1 }
//	  - append:
//	      - '10.0.0.7 - - [15/Jul/2014:05:46:12 -0700] "HEAD / HTTP/1.0" 304 - "-" "curl"'
//	    options: { insert: true, newest_first: true, max_duplicates: 0 }
//	    expect: { inserted: 1, duplicates: 1, stop_reason: max_duplicates }
//
// Each run reads the whole log file as it stands after its append lines are
// written. Runs share one database, so later runs see what earlier runs
// stored.
//
// # Deterministic Testing
//
// Run ids are "<run_id>-<n>" and the clock steps one second per call, so the
// trace of a scenario is identical across executions and can be compared
// against a golden file with RunWithGolden.
package harness
