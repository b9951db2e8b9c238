// Package storage contains the database-agnostic half of the persistence
// layer: the Dialect contract each backend implements, the backend registry,
// connection parameters and the bulk table writer.
//
// Backends (mysql, postgres, mssql, sqlite) live in subpackages and register
// themselves from init(). Import internal/storage/all to enable all of them.
package storage

import (
	"context"
	"database/sql"
)

// Execer is the subset of *sqlx.Conn, *sqlx.Tx and *sqlx.DB used to run
// statements that return no rows.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Queryer extends Execer with single-row queries.
type Queryer interface {
	Execer
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Limits bounds a single INSERT statement. Zero means unbounded.
type Limits struct {
	MaxParams int
	MaxRows   int
}

// Dialect captures everything that differs between database engines.
type Dialect interface {
	// Kind is the registry key and the value of db.driver in configuration.
	Kind() string
	// DriverName is the database/sql driver name used to open connections.
	DriverName() string

	// DSN renders connection parameters. With withDatabase false the DSN
	// targets the server only, so the database can be created first.
	DSN(p Params, withDatabase bool) (string, error)

	// CreateDatabase creates the named database if it does not exist.
	CreateDatabase(ctx context.Context, q Queryer, name string) error
	// UseDatabase returns the statement that switches the current
	// connection to name, or "" when the engine needs a new connection
	// opened with a database-scoped DSN instead.
	UseDatabase(name string) string

	// Quote quotes a single identifier.
	Quote(ident string) string
	// CreateTable returns the static CREATE TABLE statement for one of the
	// four roster tables.
	CreateTable(table string) (string, bool)
	// WrapInsert decorates a multi-row INSERT for table, e.g. to allow
	// explicit values in identity columns.
	WrapInsert(table, stmt string) string
	Limits() Limits

	// DriverError extracts the engine's native error details from err.
	DriverError(err error) (DriverError, bool)
}
