// Package batch runs a blob of SQL text containing many statements
// against handles that accept one statement per call. Statements run
// sequentially in split order, fail fast, and by default share one
// transaction that is rolled back when any of them fails.
package batch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zeptools/sqlbatch/db/sqldb"
	"github.com/zeptools/sqlbatch/journal"
	"github.com/zeptools/sqlbatch/sqlsplit"
)

type Batch struct {
	client       sqldb.Client
	tx           bool
	splitter     sqlsplit.Splitter
	convertPlhds bool
	recorder     *journal.Recorder
}

type Option func(*Batch)

// WithoutTx runs statements directly on the handle: the first failure
// truncates the results and earlier statements stay as the
// connection's own auto-commit state left them.
func WithoutTx() Option {
	return func(b *Batch) { b.tx = false }
}

// WithSplitOptions replaces the default splitter configuration.
func WithSplitOptions(opts sqlsplit.Options) Option {
	return func(b *Batch) { b.splitter = sqlsplit.New(opts) }
}

// WithSplitter swaps in a different splitting delegate entirely.
func WithSplitter(s sqlsplit.Splitter) Option {
	return func(b *Batch) { b.splitter = s }
}

// WithPlaceholderConversion rewrites static `?` placeholders in each
// statement to the backend's ordinal form, renumbered per statement.
func WithPlaceholderConversion() Option {
	return func(b *Batch) { b.convertPlhds = true }
}

// WithRecorder journals every run, best-effort.
func WithRecorder(r *journal.Recorder) Option {
	return func(b *Batch) { b.recorder = r }
}

// New builds a Batch over client. Transactions are on unless
// WithoutTx is given. The client stays externally owned; the batch
// never opens or closes it.
func New(client sqldb.Client, opts ...Option) *Batch {
	b := &Batch{
		client:   client,
		tx:       true,
		splitter: sqlsplit.New(sqlsplit.Options{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Exec splits sqlText with the configured splitter and executes the
// pieces in order. binds aligns by position with the split statements;
// a shorter list leaves trailing statements parameterless, excess
// groups are ignored. Per-call backend attrs travel on ctx via
// sqldb.WithCallAttrs and apply identically to every statement.
//
// Transactions on: all-or-nothing. Any failure rolls the whole batch
// back and returns (nil, err) - no statement counts as committed.
// Transactions off: fail-fast. The results of the statements that
// succeeded before the failure are returned together with the error.
func (b *Batch) Exec(ctx context.Context, sqlText string, binds ...[]any) ([]sqldb.Result, error) {
	return b.ExecStmts(ctx, b.splitter.Split(sqlText), binds)
}

// ExecStmts is Exec for pre-split statements.
func (b *Batch) ExecStmts(ctx context.Context, stmts []string, binds [][]any) ([]sqldb.Result, error) {
	started := time.Now()
	results, err := b.run(ctx, stmts, binds)
	b.record(ctx, stmts, len(results), err, started)
	return results, err
}

// ExecOK is the scalar variant: true iff every statement executed,
// independent of the transaction setting.
func (b *Batch) ExecOK(ctx context.Context, sqlText string, binds ...[]any) bool {
	stmts := b.splitter.Split(sqlText)
	results, err := b.ExecStmts(ctx, stmts, binds)
	return err == nil && len(results) == len(stmts)
}

func (b *Batch) run(ctx context.Context, stmts []string, binds [][]any) ([]sqldb.Result, error) {
	if b.tx {
		return b.runTx(ctx, stmts, binds)
	}
	results := make([]sqldb.Result, 0, len(stmts))
	for i, stmt := range stmts {
		logStmt(i, stmt)
		res, err := b.client.Exec(ctx, b.prepare(stmt), bindsAt(binds, i)...)
		if err != nil {
			return results, fmt.Errorf("statement %d failed: %w", i+1, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (b *Batch) runTx(ctx context.Context, stmts []string, binds [][]any) ([]sqldb.Result, error) {
	tx, err := b.client.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin batch transaction failed: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Printf("[WARN] batch rollback failed: %v", rbErr)
			}
		}
	}()
	results := make([]sqldb.Result, 0, len(stmts))
	for i, stmt := range stmts {
		logStmt(i, stmt)
		res, err := tx.Exec(ctx, b.prepare(stmt), bindsAt(binds, i)...)
		if err != nil {
			return nil, fmt.Errorf("statement %d failed: %w", i+1, err)
		}
		results = append(results, res)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit batch failed: %w", err)
	}
	committed = true
	return results, nil
}

func (b *Batch) prepare(stmt string) string {
	if !b.convertPlhds {
		return stmt
	}
	return sqldb.ReplaceStaticPlaceholders(stmt, b.client.PlaceholderPrefix())
}

func bindsAt(binds [][]any, i int) []any {
	if i < len(binds) {
		return binds[i]
	}
	return nil
}

func (b *Batch) record(ctx context.Context, stmts []string, resultCount int, err error, started time.Time) {
	if b.recorder == nil {
		return
	}
	entry := journal.Entry{
		Stmts:       stmts,
		ResultCount: resultCount,
		OK:          err == nil,
		StartedAt:   started,
		Duration:    time.Since(started),
	}
	if err != nil {
		entry.ErrText = err.Error()
	}
	if _, jerr := b.recorder.Record(ctx, entry); jerr != nil {
		log.Printf("[WARN] batch journal write failed: %v", jerr)
	}
}
