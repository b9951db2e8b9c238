// Package mysql registers the MySQL dialect with the storage registry.
//
// MySQL is the reference target: the database is created with
// CREATE DATABASE IF NOT EXISTS and selected on the live connection with USE.
package mysql

import (
	"context"
	"net"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-sql-driver/mysql"

	"rosteretl/internal/storage"
)

// Kind is the value of db.driver selecting this dialect.
const Kind = "mysql"

// Dialect implements storage.Dialect for MySQL and MariaDB.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func init() { storage.Register(Dialect{}) }

func (Dialect) Kind() string       { return Kind }
func (Dialect) DriverName() string { return "mysql" }

// DSN builds a go-sql-driver DSN. Options are passed through as DSN params.
func (Dialect) DSN(p storage.Params, withDatabase bool) (string, error) {
	if strings.TrimSpace(p.Host) == "" {
		return "", errors.New("mysql: db.host is required")
	}
	port := p.Port
	if port == 0 {
		port = 3306
	}

	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.Host, strconv.Itoa(port))
	if withDatabase {
		cfg.DBName = p.Database
	}
	if len(p.Options) > 0 {
		cfg.Params = make(map[string]string, len(p.Options))
		for k, v := range p.Options {
			cfg.Params[k] = v
		}
	}
	return cfg.FormatDSN(), nil
}

func (d Dialect) CreateDatabase(ctx context.Context, q storage.Queryer, name string) error {
	_, err := q.ExecContext(ctx,
		"CREATE DATABASE IF NOT EXISTS "+d.Quote(name)+" DEFAULT CHARACTER SET utf8mb4")
	return err
}

func (d Dialect) UseDatabase(name string) string { return "USE " + d.Quote(name) }

// Quote backtick-quotes an identifier, doubling embedded backticks.
func (Dialect) Quote(ident string) string { return myIdent(ident) }

func (Dialect) CreateTable(table string) (string, bool) {
	s, ok := createTable[table]
	return s, ok
}

func (Dialect) WrapInsert(_, stmt string) string { return stmt }

// Limits caps a statement at the 65535 placeholders the prepared statement
// protocol can address.
func (Dialect) Limits() storage.Limits { return storage.Limits{MaxParams: 65535} }

func (Dialect) DriverError(err error) (storage.DriverError, bool) {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return storage.DriverError{}, false
	}
	return storage.DriverError{
		SQLState: strings.TrimRight(string(me.SQLState[:]), "\x00"),
		Code:     int(me.Number),
		Message:  me.Message,
	}, true
}

func myIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }
