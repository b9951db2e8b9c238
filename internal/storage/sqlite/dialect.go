// Package sqlite registers the SQLite dialect with the storage registry,
// using the pure-Go modernc.org/sqlite driver.
//
// The database name is a file path. Opening the file creates it, so there is
// nothing to create or select beyond connecting.
package sqlite

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"

	"rosteretl/internal/storage"
)

// Kind is the value of db.driver selecting this dialect.
const Kind = "sqlite"

// Dialect implements storage.Dialect for SQLite.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
	storage.Register(Dialect{})
}

func (Dialect) Kind() string       { return Kind }
func (Dialect) DriverName() string { return "sqlite" }

// DSN returns a file: URI with foreign keys enforced. Options are appended
// as query-escaped _pragma=name(value) pairs in key order.
func (Dialect) DSN(p storage.Params, _ bool) (string, error) {
	path := strings.TrimSpace(p.Database)
	if path == "" {
		return "", errors.New("sqlite: db.name (file path) is required")
	}
	var b strings.Builder
	b.WriteString("file:")
	b.WriteString(strings.TrimPrefix(path, "file:"))
	b.WriteString("?_pragma=foreign_keys(1)")
	keys := make([]string, 0, len(p.Options))
	for k := range p.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("&_pragma=")
		b.WriteString(url.QueryEscape(k + "(" + p.Options[k] + ")"))
	}
	return b.String(), nil
}

func (Dialect) CreateDatabase(context.Context, storage.Queryer, string) error { return nil }

// UseDatabase reports that the database is chosen by the DSN.
func (Dialect) UseDatabase(string) string { return "" }

func (Dialect) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (Dialect) CreateTable(table string) (string, bool) {
	s, ok := createTable[table]
	return s, ok
}

func (Dialect) WrapInsert(_, stmt string) string { return stmt }

// Limits matches SQLITE_MAX_VARIABLE_NUMBER of the bundled library.
func (Dialect) Limits() storage.Limits { return storage.Limits{MaxParams: 32766} }

func (Dialect) DriverError(err error) (storage.DriverError, bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return storage.DriverError{}, false
	}
	return storage.DriverError{Code: se.Code(), Message: se.Error()}, true
}
