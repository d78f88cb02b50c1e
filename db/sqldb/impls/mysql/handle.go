package mysql

import (
	"context"
	"database/sql"

	"github.com/zeptools/sqlbatch/db/sqldb"
)

type Handle struct {
	*sql.DB // [Embedded]
}

// Ensure mysql.Handle implements sqldb.Handle interface
var _ sqldb.Handle = (*Handle)(nil)

func (h *Handle) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	result, err := h.DB.ExecContext(ctx, query, args...)
	// NOTE: We can process a DBMS-specific error to produce a better abstracted error
	if err != nil {
		return nil, err
	}
	return result, nil // *sql.Result satisfies sqldb.Result as-is
}

func (h *Handle) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	rows, err := h.DB.QueryContext(ctx, query, args...)
	// NOTE: We can process a DBMS-specific error to produce a better abstracted error
	if err != nil {
		return nil, err
	}
	return rows, nil // *sql.Rows satisfies sqldb.Rows as-is
}

func (h *Handle) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	return h.DB.QueryRowContext(ctx, query, args...)
}
