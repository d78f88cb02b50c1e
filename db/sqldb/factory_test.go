package sqldb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/sqlbatch/db/sqldb"
	"github.com/zeptools/sqlbatch/db/sqldb/impls/fake"
)

func TestNewUnknownType(t *testing.T) {
	_, err := sqldb.New("no-such-db", &sqldb.Conf{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestNewRegisteredType(t *testing.T) {
	sqldb.RegisterFactory("stub", func(conf *sqldb.Conf) (sqldb.Client, error) {
		return &fake.Client{}, nil
	})

	client, err := sqldb.New("stub", &sqldb.Conf{Type: "stub"})
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, byte('?'), client.PlaceholderPrefix())
}
