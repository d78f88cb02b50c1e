package pgsql

import (
	"github.com/jackc/pgx/v5"
	"github.com/zeptools/sqlbatch/db/sqldb"
)

type Row struct {
	row pgx.Row
}

// Ensure pgsql.Row implements sqldb.Row
var _ sqldb.Row = (*Row)(nil)

func (r *Row) Scan(dest ...any) error {
	return r.row.Scan(dest...)
}
