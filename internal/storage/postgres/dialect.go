// Package postgres registers the PostgreSQL dialect with the storage
// registry. Connections go through pgx's database/sql driver.
//
// PostgreSQL cannot switch databases on a live connection, so after the
// database is created the session reconnects with a database-scoped DSN.
package postgres

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	"rosteretl/internal/storage"
)

// Kind is the value of db.driver selecting this dialect.
const Kind = "postgres"

// maintenanceDB is the database server-level connections attach to.
const maintenanceDB = "postgres"

// Dialect implements storage.Dialect for PostgreSQL.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func init() { storage.Register(Dialect{}) }

func (Dialect) Kind() string       { return Kind }
func (Dialect) DriverName() string { return "pgx" }

// DSN builds a postgres:// URL. Options become query parameters, e.g.
// sslmode.
func (Dialect) DSN(p storage.Params, withDatabase bool) (string, error) {
	if strings.TrimSpace(p.Host) == "" {
		return "", errors.New("postgres: db.host is required")
	}
	port := p.Port
	if port == 0 {
		port = 5432
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(port)),
		Path:   "/" + maintenanceDB,
	}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	if withDatabase {
		u.Path = "/" + p.Database
	}
	if len(p.Options) > 0 {
		q := url.Values{}
		for k, v := range p.Options {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (d Dialect) CreateDatabase(ctx context.Context, q storage.Queryer, name string) error {
	var exists bool
	err := q.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", name).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = q.ExecContext(ctx, "CREATE DATABASE "+d.Quote(name)+" ENCODING 'UTF8'")
	return err
}

// UseDatabase reports that a reconnect is required.
func (Dialect) UseDatabase(string) string { return "" }

// Quote double-quotes an identifier, doubling embedded quotes.
func (Dialect) Quote(ident string) string { return pgIdent(ident) }

func (Dialect) CreateTable(table string) (string, bool) {
	s, ok := createTable[table]
	return s, ok
}

func (Dialect) WrapInsert(_, stmt string) string { return stmt }

// Limits reflects the 16-bit parameter count of the extended protocol.
func (Dialect) Limits() storage.Limits { return storage.Limits{MaxParams: 65535} }

func (Dialect) DriverError(err error) (storage.DriverError, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return storage.DriverError{}, false
	}
	msg := pgErr.Message
	if pgErr.Detail != "" {
		msg += ": " + pgErr.Detail
	}
	return storage.DriverError{SQLState: pgErr.SQLState(), Message: msg}, true
}

func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
