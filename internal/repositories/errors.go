package repositories

import (
	"database/sql"
	"errors"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError wraps unexpected driver or connection errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert or update violates a
	// unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, so repository write
// methods can run standalone or inside a caller-managed transaction.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// scanner is satisfied by *sql.Row and *sql.Rows, for shared scan helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}
