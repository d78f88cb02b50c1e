// Package fake provides a scripted in-memory sqldb.Client for tests.
// It records every executed statement, can fail at a chosen ordinal,
// and tracks which statement effects ended up applied so transaction
// visibility can be asserted without a live database.
package fake

import (
	"context"
	"errors"

	"github.com/zeptools/sqlbatch/db/sqldb"
)

// ErrScripted is the default failure injected at FailAt.
var ErrScripted = errors.New("fake: scripted statement failure")

// Executed is one recorded statement submission.
type Executed struct {
	Query string
	Args  []any
	Attrs sqldb.CallAttrs
	InTx  bool
}

type Client struct {
	FailAt  int   // 1-based ordinal of the statement to fail. 0 = never
	FailErr error // overrides ErrScripted when set
	Prefix  byte  // placeholder prefix to report. 0 = '?'

	conf     sqldb.Conf
	executed []Executed
	applied  []string // statements whose effects are visible
	execCnt  int

	begun      int
	committed  int
	rolledBack int
}

// Ensure fake.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

func (c *Client) Init() error                  { return nil }
func (c *Client) Open(_ context.Context) error { return nil }
func (c *Client) Close() error                 { return nil }

func (c *Client) GetHandle() sqldb.Handle { return c }
func (c *Client) GetConf() *sqldb.Conf    { return &c.conf }
func (c *Client) GetDSN() string          { return "fake://" }

func (c *Client) Ping(_ context.Context) error { return nil }

func (c *Client) PlaceholderPrefix() byte {
	if c.Prefix == 0 {
		return '?'
	}
	return c.Prefix
}

func (c *Client) BeginTx(_ context.Context) (sqldb.Tx, error) {
	c.begun++
	return &Tx{c: c}, nil
}

func (c *Client) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	res, err := c.exec(ctx, query, args, false)
	if err != nil {
		return nil, err
	}
	c.applied = append(c.applied, query) // no tx: effect visible immediately
	return res, nil
}

func (c *Client) QueryRows(_ context.Context, _ string, _ ...any) (sqldb.Rows, error) {
	return nil, errors.New("fake: QueryRows not scripted")
}

func (c *Client) QueryRow(_ context.Context, _ string, _ ...any) sqldb.Row {
	return errRow{}
}

func (c *Client) exec(ctx context.Context, query string, args []any, inTx bool) (sqldb.Result, error) {
	c.execCnt++
	c.executed = append(c.executed, Executed{
		Query: query,
		Args:  args,
		Attrs: sqldb.CallAttrsFrom(ctx),
		InTx:  inTx,
	})
	if c.FailAt > 0 && c.execCnt == c.FailAt {
		if c.FailErr != nil {
			return nil, c.FailErr
		}
		return nil, ErrScripted
	}
	return &Result{ordinal: int64(c.execCnt)}, nil
}

//---- Inspection ----

func (c *Client) Executed() []Executed { return c.executed }
func (c *Client) Applied() []string    { return c.applied }
func (c *Client) Begun() int           { return c.begun }
func (c *Client) Committed() int       { return c.committed }
func (c *Client) RolledBack() int      { return c.rolledBack }

type errRow struct{}

func (errRow) Scan(_ ...any) error { return errors.New("fake: QueryRow not scripted") }
