package store

import (
	"context"
	"fmt"

	"github.com/roach88/ipl2sql/internal/iplog"
)

// Append inserts rec as a new row and sets rec.ID to the key the store
// assigned. The identifier is always submitted as NULL so the auto-increment
// column picks the value.
//
// Append does not check for duplicates; callers Probe first.
func (s *Store) Append(ctx context.Context, rec *iplog.StoredRecord) error {
	if err := s.connect(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, s.insertSQL,
		nil,
		rec.IPAddress,
		rec.LogDateTime,
		rec.MethodURI,
		rec.Status,
		rec.PageSize,
		rec.Referer,
		rec.Agent,
		rec.OriginHost,
		rec.InsertionTime,
	)
	if err != nil {
		return &Error{Op: OpInsert, Table: s.cfg.Table, Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return &Error{Op: OpInsert, Table: s.cfg.Table, Err: fmt.Errorf("last insert id: %w", err)}
	}
	rec.ID = id

	return nil
}
