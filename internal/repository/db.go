package repository

import (
	"database/sql"
)

// SQLExecutor is the intersection of sql.DB and sql.Tx used by the
// repositories, so the same repository code runs inside and outside a
// database transaction.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

var (
	_ SQLExecutor = (*sql.DB)(nil)
	_ SQLExecutor = (*sql.Tx)(nil)
)
