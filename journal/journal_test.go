package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/sqlbatch/db/kvdb/impls/memory"
	"github.com/zeptools/sqlbatch/journal"
)

func newKV(t *testing.T) *memory.Client {
	t.Helper()
	kv := &memory.Client{}
	require.NoError(t, kv.Init())
	return kv
}

func TestRecordAndLoad(t *testing.T) {
	ctx := context.Background()
	rec := journal.New(newKV(t))

	started := time.Now().Add(-time.Second)
	id, err := rec.Record(ctx, journal.Entry{
		Stmts:       []string{"CREATE TABLE t(a INT)", "INSERT INTO t VALUES (1)"},
		ResultCount: 2,
		OK:          true,
		StartedAt:   started,
		Duration:    42 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	loaded, found, err := rec.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, loaded.ID)
	assert.Equal(t, 2, loaded.StmtCount)
	assert.Equal(t, 2, loaded.ResultCount)
	assert.True(t, loaded.OK)
	assert.Empty(t, loaded.ErrText)
	assert.Equal(t, int64(42000), loaded.DurationUS)
	assert.Equal(t, started.UTC().Format(time.RFC3339Nano),
		loaded.StartedAt.Format(time.RFC3339Nano))
	assert.Len(t, loaded.Fingerprint, 16)
}

func TestLoadUnknownID(t *testing.T) {
	ctx := context.Background()
	rec := journal.New(newKV(t))

	_, found, err := rec.Load(ctx, "no-such-id")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	rec := journal.New(newKV(t))

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := rec.Record(ctx, journal.Entry{Stmts: []string{"SELECT 1"}, OK: true})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	recent, err := rec.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, recent)
}

func TestRecentCapTrimsOldRuns(t *testing.T) {
	ctx := context.Background()
	rec := journal.New(newKV(t), journal.WithRecentCap(2))

	for i := 0; i < 5; i++ {
		_, err := rec.Record(ctx, journal.Entry{Stmts: []string{"SELECT 1"}, OK: true})
		require.NoError(t, err)
	}

	recent, err := rec.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestFingerprint(t *testing.T) {
	a := journal.Fingerprint([]string{"SELECT 1", "SELECT 2"})
	b := journal.Fingerprint([]string{"SELECT 1", "SELECT 2"})
	assert.Equal(t, a, b)

	// order-sensitive
	assert.NotEqual(t, a, journal.Fingerprint([]string{"SELECT 2", "SELECT 1"}))
	// boundary-sensitive
	assert.NotEqual(t, journal.Fingerprint([]string{"ab"}), journal.Fingerprint([]string{"a", "b"}))
}
