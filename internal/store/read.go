package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/ipl2sql/internal/iplog"
)

// Probe reports whether a row with the same IP, timestamp text, method/URI,
// status, page size, referer, agent and origin host already exists.
// ID and InsertionTime are not compared.
func (s *Store) Probe(ctx context.Context, rec iplog.StoredRecord) (bool, error) {
	if err := s.connect(ctx); err != nil {
		return false, err
	}

	var one int
	err := s.db.QueryRowContext(ctx, s.probeSQL,
		rec.IPAddress,
		rec.LogDateTime,
		rec.MethodURI,
		rec.Status,
		rec.PageSize,
		rec.Referer,
		rec.Agent,
		rec.OriginHost,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &Error{Op: OpProbe, Table: s.cfg.Table, Err: err}
	}
	return true, nil
}

// Count returns the number of rows in the table.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if err := s.connect(ctx); err != nil {
		return 0, err
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, s.dialect.countSQL(s.cfg.Table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}
