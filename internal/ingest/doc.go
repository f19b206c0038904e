// Package ingest drives one access-log file into the store.
//
// A Runner reads raw lines from a LineSource, parses each with clf.Parse and,
// when inserts are enabled, runs the duplicate-avoiding protocol against a
// RecordStore: Probe first, Append only when Probe finds nothing.
//
// # State Machine
//
//	Reading -> ParseOk -> Probing -> Duplicate           -> Reading
//	                              -> Inserting -> Inserted     -> Reading
//	                                           -> InsertFailed -> Reading
//	        -> ParseFailed                                -> Reading
//	        -> Done
//
// Done is reached at end of input, at MaxLines, when duplicates exceed
// MaxDuplicates, or when a stop-on-failure policy fires.
//
// # Newest First
//
// With NewestFirst the accepted records are collected, reversed, and only
// then probed. Access logs are append-only, so the newest entries are the
// ones least likely to be stored already, and a small MaxDuplicates lets the
// run stop as soon as it reaches entries a previous run stored.
//
// # Failure Handling
//
// Per-record failures (parse, probe, insert) are counted and logged and never
// returned. Only a reader OpenError and a store connect error end Run with an
// error; in that case no report is expected.
//
// The runner is single-goroutine. Every read and store call blocks, and the
// store sees probe/append pairs in exactly the presented order.
package ingest
