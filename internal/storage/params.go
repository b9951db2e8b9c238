package storage

import (
	"strings"

	"github.com/go-faster/errors"
)

// Params are the connection parameters of a database sink. Database is the
// database name for server engines and the file path for SQLite.
type Params struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	// Options are extra driver-specific DSN parameters.
	Options map[string]string
}

// Validate checks the fields every dialect needs.
func (p Params) Validate() error {
	if strings.TrimSpace(p.Driver) == "" {
		return errors.New("db.driver is required")
	}
	if strings.TrimSpace(p.Database) == "" {
		return errors.New("db.name is required")
	}
	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("db.port %d out of range", p.Port)
	}
	return nil
}

// Redacted returns a copy safe for logging.
func (p Params) Redacted() Params {
	if p.Password != "" {
		p.Password = "****"
	}
	return p
}
