//go:build !debug

package batch

func logStmt(_ int, _ string) {}
