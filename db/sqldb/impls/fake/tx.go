package fake

import (
	"context"
	"errors"

	"github.com/zeptools/sqlbatch/db/sqldb"
)

type Tx struct {
	c       *Client
	pending []string
	done    bool
}

// Ensure fake.Tx implements sqldb.Tx
var _ sqldb.Tx = (*Tx)(nil)

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	if t.done {
		return nil, errors.New("fake: tx already finished")
	}
	res, err := t.c.exec(ctx, query, args, true)
	if err != nil {
		return nil, err
	}
	t.pending = append(t.pending, query)
	return res, nil
}

func (t *Tx) Query(_ context.Context, _ string, _ ...any) (sqldb.Rows, error) {
	return nil, errors.New("fake: tx Query not scripted")
}

func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return errors.New("fake: tx already finished")
	}
	t.done = true
	t.c.committed++
	t.c.applied = append(t.c.applied, t.pending...)
	t.pending = nil
	return nil
}

func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return errors.New("fake: tx already finished")
	}
	t.done = true
	t.c.rolledBack++
	t.pending = nil
	return nil
}
