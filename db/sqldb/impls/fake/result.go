package fake

import "github.com/zeptools/sqlbatch/db/sqldb"

type Result struct {
	ordinal int64 // 1-based submission ordinal of the statement
}

// Ensure fake.Result implements sqldb.Result
var _ sqldb.Result = (*Result)(nil)

func (r *Result) RowsAffected() (int64, error) { return 1, nil }
func (r *Result) LastInsertId() (int64, error) { return r.ordinal, nil }
