package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Config holds store connection parameters.
type Config struct {
	Driver   Driver
	Host     string
	User     string
	Password string
	Database string
	Table    string
}

// Store is a single connection pool bound to one table.
// It is not safe for concurrent use; ingestion is serial.
type Store struct {
	db      *sql.DB
	cfg     Config
	dialect dialect
	logger  *slog.Logger

	connected bool

	probeSQL  string
	insertSQL string
}

// Open validates cfg and prepares a Store. No connection is made until the
// first Probe, Append, or EnsureSchema.
func Open(cfg Config, logger *slog.Logger) (*Store, error) {
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if !ValidTableName(cfg.Table) {
		return nil, fmt.Errorf("invalid table name %q", cfg.Table)
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("database is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open(string(cfg.Driver), cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLite only supports one writer at a time
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	return &Store{
		db:        db,
		cfg:       cfg,
		dialect:   d,
		logger:    logger.With("table", cfg.Table),
		probeSQL:  d.probeSQL(cfg.Table),
		insertSQL: d.insertSQL(cfg.Table),
	}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err == nil && s.connected {
		s.logger.Info("disconnected from store")
	}
	s.connected = false
	return err
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Table returns the configured table name.
func (s *Store) Table() string {
	return s.cfg.Table
}

// EnsureSchema connects if needed and creates the table when it is absent.
// Only a connection failure is returned.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.connect(ctx)
}

// connect establishes the connection once. The first success also creates
// the table.
func (s *Store) connect(ctx context.Context) error {
	if s.connected {
		return nil
	}
	if s.db == nil {
		return &Error{Op: OpConnect, Table: s.cfg.Table, Err: sql.ErrConnDone}
	}

	if err := s.db.PingContext(ctx); err != nil {
		return &Error{Op: OpConnect, Table: s.cfg.Table, Err: err}
	}
	if s.cfg.Driver == DriverSQLite {
		if err := applyPragmas(ctx, s.db); err != nil {
			return &Error{Op: OpConnect, Table: s.cfg.Table, Err: err}
		}
	}
	s.connected = true
	s.logger.Info("connected to store", "driver", s.cfg.Driver, "database", s.cfg.Database)

	s.createTable(ctx)
	return nil
}

// createTable runs CREATE TABLE IF NOT EXISTS. Failure is not fatal: an
// existing table of a compatible shape is assumed.
func (s *Store) createTable(ctx context.Context) {
	if _, err := s.db.ExecContext(ctx, s.dialect.createTableSQL(s.cfg.Table)); err != nil {
		s.logger.Warn("create table failed, assuming existing table", "error", err)
		return
	}
	s.logger.Info("table ready")
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
