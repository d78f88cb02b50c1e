package batch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/sqlbatch/batch"
	"github.com/zeptools/sqlbatch/db"
	"github.com/zeptools/sqlbatch/db/kvdb/impls/memory"
	"github.com/zeptools/sqlbatch/db/sqldb"
	"github.com/zeptools/sqlbatch/db/sqldb/impls/fake"
	"github.com/zeptools/sqlbatch/journal"
	"github.com/zeptools/sqlbatch/sqlsplit"
)

var threeStmts = []string{
	"CREATE TABLE t(a INT)",
	"INSERT INTO t VALUES (1)",
	"INSERT INTO t VALUES (2)",
}

func TestExecStmtsTxAllSucceed(t *testing.T) {
	ctx := context.Background()
	client := &fake.Client{}
	defer db.CloseClient[sqldb.Handle]("fake-sqldb", client)
	b := batch.New(client)

	results, err := b.ExecStmts(ctx, threeStmts, nil)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	assert.Equal(t, 1, client.Begun())
	assert.Equal(t, 1, client.Committed())
	assert.Equal(t, 0, client.RolledBack())
	assert.Equal(t, threeStmts, client.Applied()) // effects visible after commit
}

func TestExecStmtsTxFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	client := &fake.Client{FailAt: 2}
	b := batch.New(client)

	results, err := b.ExecStmts(ctx, threeStmts, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, fake.ErrScripted)
	assert.Empty(t, results) // total failure: nothing counts as committed

	assert.Equal(t, 1, client.RolledBack())
	assert.Equal(t, 0, client.Committed())
	assert.Empty(t, client.Applied()) // statement 1 rolled back too
	assert.Len(t, client.Executed(), 2) // fail-fast: statement 3 never submitted
}

func TestExecStmtsNoTxFailureTruncates(t *testing.T) {
	ctx := context.Background()
	client := &fake.Client{FailAt: 3}
	b := batch.New(client, batch.WithoutTx())

	results, err := b.ExecStmts(ctx, threeStmts, nil)
	require.Error(t, err)
	assert.Len(t, results, 2) // the two that succeeded before the failure

	assert.Equal(t, 0, client.Begun())
	assert.Equal(t, threeStmts[:2], client.Applied()) // no rollback: effects stay
}

func TestExecSplitsAndRuns(t *testing.T) {
	ctx := context.Background()
	client := &fake.Client{}
	b := batch.New(client)

	results, err := b.Exec(ctx, "CREATE TABLE foo(a,b); CREATE TABLE bar(c,d);")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	executed := client.Executed()
	require.Len(t, executed, 2)
	assert.Equal(t, "CREATE TABLE foo(a,b)", executed[0].Query)
	assert.Equal(t, "CREATE TABLE bar(c,d)", executed[1].Query)
	assert.True(t, executed[0].InTx)
}

func TestExecOK(t *testing.T) {
	ctx := context.Background()
	sql := "SELECT 1; SELECT 2; SELECT 3;"

	tests := []struct {
		name   string
		client *fake.Client
		opts   []batch.Option
		want   bool
	}{
		{"tx all succeed", &fake.Client{}, nil, true},
		{"tx one fails", &fake.Client{FailAt: 2}, nil, false},
		{"no tx all succeed", &fake.Client{}, []batch.Option{batch.WithoutTx()}, true},
		{"no tx one fails", &fake.Client{FailAt: 2}, []batch.Option{batch.WithoutTx()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := batch.New(tt.client, tt.opts...)
			assert.Equal(t, tt.want, b.ExecOK(ctx, sql))
		})
	}
}

func TestBindAlignment(t *testing.T) {
	ctx := context.Background()

	t.Run("shorter bind list leaves trailing statements parameterless", func(t *testing.T) {
		client := &fake.Client{}
		b := batch.New(client)
		_, err := b.ExecStmts(ctx, threeStmts, [][]any{nil, {1}})
		require.NoError(t, err)

		executed := client.Executed()
		require.Len(t, executed, 3)
		assert.Empty(t, executed[0].Args)
		assert.Equal(t, []any{1}, executed[1].Args)
		assert.Empty(t, executed[2].Args)
	})

	t.Run("excess bind groups ignored", func(t *testing.T) {
		client := &fake.Client{}
		b := batch.New(client)
		_, err := b.ExecStmts(ctx, []string{"SELECT ?"}, [][]any{{1}, {2}, {3}})
		require.NoError(t, err)
		assert.Len(t, client.Executed(), 1)
	})
}

func TestPlaceholderConversion(t *testing.T) {
	ctx := context.Background()
	client := &fake.Client{Prefix: '$'}
	b := batch.New(client, batch.WithPlaceholderConversion())

	stmts := []string{
		"INSERT INTO t VALUES (?, ?)",
		"UPDATE t SET a = ? WHERE b = ?",
	}
	_, err := b.ExecStmts(ctx, stmts, [][]any{{1, 2}, {3, 4}})
	require.NoError(t, err)

	executed := client.Executed()
	require.Len(t, executed, 2)
	// numbering restarts per statement
	assert.Equal(t, "INSERT INTO t VALUES ($1, $2)", executed[0].Query)
	assert.Equal(t, "UPDATE t SET a = $1 WHERE b = $2", executed[1].Query)
}

func TestCallAttrsReachEveryStatement(t *testing.T) {
	client := &fake.Client{}
	b := batch.New(client, batch.WithoutTx())

	ctx := sqldb.WithCallAttrs(context.Background(), sqldb.CallAttrs{"simple_protocol": true})
	_, err := b.Exec(ctx, "SELECT 1; SELECT 2;")
	require.NoError(t, err)

	for _, e := range client.Executed() {
		assert.Equal(t, true, e.Attrs["simple_protocol"])
	}
}

func TestSplitOptionsPassThrough(t *testing.T) {
	ctx := context.Background()
	client := &fake.Client{}
	b := batch.New(client, batch.WithSplitOptions(sqlsplit.Options{KeepTerminators: true}))

	_, err := b.Exec(ctx, "SELECT 1; SELECT 2;")
	require.NoError(t, err)

	executed := client.Executed()
	require.Len(t, executed, 2)
	assert.Equal(t, "SELECT 1;", executed[0].Query)
	assert.Equal(t, "SELECT 2;", executed[1].Query)
}

func TestJournalRecordsRuns(t *testing.T) {
	ctx := context.Background()

	kv := &memory.Client{}
	require.NoError(t, kv.Init())
	rec := journal.New(kv)

	client := &fake.Client{}
	b := batch.New(client, batch.WithRecorder(rec))

	_, err := b.Exec(ctx, "CREATE TABLE foo(a,b); CREATE TABLE bar(c,d);")
	require.NoError(t, err)

	ids, err := rec.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	loaded, found, err := rec.Load(ctx, ids[0])
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, loaded.OK)
	assert.Equal(t, 2, loaded.StmtCount)
	assert.Equal(t, 2, loaded.ResultCount)
	assert.Empty(t, loaded.ErrText)
}

func TestJournalRecordsFailures(t *testing.T) {
	ctx := context.Background()

	kv := &memory.Client{}
	require.NoError(t, kv.Init())
	rec := journal.New(kv)

	client := &fake.Client{FailAt: 1}
	b := batch.New(client, batch.WithRecorder(rec))

	_, err := b.Exec(ctx, "SELECT 1;")
	require.Error(t, err)

	ids, err := rec.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	loaded, found, err := rec.Load(ctx, ids[0])
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, loaded.OK)
	assert.Contains(t, loaded.ErrText, "statement 1 failed")
}
