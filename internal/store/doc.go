// Package store provides SQL-backed storage for ingested access-log records.
//
// One table holds one row per stored record:
//
//	IPEventNumber  auto-assigned integer primary key
//	IPaddress, DateTime, MethodURI, Status, PageSize, Referer, Agent
//	ThisHost       origin host supplied per run
//	InsertionTime  yyyy.mmdd.hhmm.ss wall-clock write time
//
// # Duplicate Avoidance
//
// Callers Probe before every Append and skip the append when Probe reports a
// match on all fields except IPEventNumber and InsertionTime. The two calls
// are separate statements with no transaction or lock spanning them, and the
// table carries no uniqueness constraint. Two ingest runs writing the same
// table concurrently can both miss in Probe and both Append the same record.
// Ingestion into a given table must therefore be serial.
//
// # Connection Lifecycle
//
// Open validates configuration only. The connection is established on the
// first Probe or Append; a failure there is an Error with OpConnect. On the
// first successful connection the table is created if absent. A failed CREATE
// is logged and otherwise ignored, on the assumption that a compatible table
// already exists.
//
// # Dialects
//
//   - sqlite3: Database is a file path; host, user and password are unused
//   - mysql: host[:port] or a unix socket path, user, password, database
//
// Every value is bound as a statement parameter. The table name is the only
// spliced text; it must be a plain identifier and is quoted per dialect.
package store
