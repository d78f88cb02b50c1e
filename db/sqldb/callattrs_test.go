package sqldb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeptools/sqlbatch/db/sqldb"
)

func TestCallAttrs(t *testing.T) {
	base := context.Background()

	assert.Nil(t, sqldb.CallAttrsFrom(base))
	assert.False(t, sqldb.BoolAttr(base, "simple_protocol"))

	ctx := sqldb.WithCallAttrs(base, sqldb.CallAttrs{"simple_protocol": true, "label": "migrate"})
	assert.True(t, sqldb.BoolAttr(ctx, "simple_protocol"))
	assert.False(t, sqldb.BoolAttr(ctx, "label")) // non-bool attr reads as false
	assert.Equal(t, "migrate", sqldb.CallAttrsFrom(ctx)["label"])

	// empty attrs leave the context untouched
	assert.Equal(t, base, sqldb.WithCallAttrs(base, nil))
}
