//go:build debug

package batch

import "log"

func logStmt(i int, stmt string) {
	log.Printf("[DEBUG] batch stmt %d: %s", i+1, stmt)
}
