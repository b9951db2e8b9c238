// Package mssql registers the Microsoft SQL Server dialect with the storage
// registry, using the go-mssqldb "sqlserver" driver.
package mssql

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"rosteretl/internal/storage"
)

// Kind is the value of db.driver selecting this dialect.
const Kind = "mssql"

// Dialect implements storage.Dialect for SQL Server.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func init() { storage.Register(Dialect{}) }

func (Dialect) Kind() string       { return Kind }
func (Dialect) DriverName() string { return "sqlserver" }

// DSN builds a sqlserver:// URL and validates it with the driver's parser.
func (Dialect) DSN(p storage.Params, withDatabase bool) (string, error) {
	if strings.TrimSpace(p.Host) == "" {
		return "", errors.New("mssql: db.host is required")
	}
	port := p.Port
	if port == 0 {
		port = 1433
	}

	u := url.URL{
		Scheme: "sqlserver",
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(port)),
	}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	q := url.Values{}
	for k, v := range p.Options {
		q.Set(k, v)
	}
	if withDatabase {
		q.Set("database", p.Database)
	}
	u.RawQuery = q.Encode()

	dsn := u.String()
	if _, err := msdsn.Parse(dsn); err != nil {
		return "", errors.Wrap(err, "mssql dsn")
	}
	return dsn, nil
}

func (Dialect) CreateDatabase(ctx context.Context, q storage.Queryer, name string) error {
	_, err := q.ExecContext(ctx,
		"DECLARE @stmt nvarchar(max) = N'CREATE DATABASE ' + QUOTENAME(@p1); "+
			"IF DB_ID(@p1) IS NULL EXEC (@stmt);", name)
	return err
}

func (d Dialect) UseDatabase(name string) string { return "USE " + d.Quote(name) }

// Quote brackets an identifier, escaping closing brackets.
func (Dialect) Quote(ident string) string { return msIdent(ident) }

func (Dialect) CreateTable(table string) (string, bool) {
	s, ok := createTable[table]
	return s, ok
}

// WrapInsert allows explicit ids in the IDENTITY column for the duration of
// the batch.
func (d Dialect) WrapInsert(table, stmt string) string {
	t := d.Quote(table)
	return "SET IDENTITY_INSERT " + t + " ON; " + stmt + "; SET IDENTITY_INSERT " + t + " OFF;"
}

// Limits stays below the server's 2100 parameters per request and respects
// the 1000-row cap of a VALUES list.
func (Dialect) Limits() storage.Limits { return storage.Limits{MaxParams: 2000, MaxRows: 1000} }

func (Dialect) DriverError(err error) (storage.DriverError, bool) {
	var me mssql.Error
	if errors.As(err, &me) {
		return fromError(me), true
	}
	var pme *mssql.Error
	if errors.As(err, &pme) && pme != nil {
		return fromError(*pme), true
	}
	return storage.DriverError{}, false
}

func fromError(e mssql.Error) storage.DriverError {
	return storage.DriverError{Code: int(e.Number), Message: e.Message}
}

// msIdent safely quotes a SQL Server identifier using [brackets], escaping ].
func msIdent(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }
