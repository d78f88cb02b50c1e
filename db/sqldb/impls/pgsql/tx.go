package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/zeptools/sqlbatch/db/sqldb"
)

type Tx struct {
	tx      pgx.Tx
	release func() // returns the acquired conn to the pool
}

// Ensure pgsql.Tx implements sqldb.Tx
var _ sqldb.Tx = (*Tx)(nil)

func (t *Tx) Commit(ctx context.Context) error {
	defer t.released()
	return t.tx.Commit(ctx)
}

func (t *Tx) Rollback(ctx context.Context) error {
	defer t.released()
	return t.tx.Rollback(ctx)
}

func (t *Tx) released() {
	if t.release != nil {
		t.release()
		t.release = nil
	}
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	tag, err := t.tx.Exec(ctx, query, execArgs(ctx, args)...)
	if err != nil {
		return nil, err
	}
	return &Result{tag: tag}, nil
}

func (t *Tx) Query(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	rows, err := t.tx.Query(ctx, query, execArgs(ctx, args)...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}
