package persist

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

// Kind classifies a session failure.
type Kind int

const (
	// KindConfiguration: missing or invalid connection parameters, or an
	// unsupported driver. Raised before any connection attempt.
	KindConfiguration Kind = iota + 1
	// KindConnection: the server cannot be reached, or the database cannot
	// be created or selected.
	KindConnection
	// KindSchema: a DDL statement of the schema reset failed.
	KindSchema
	// KindWrite: a table insert failed.
	KindWrite
)

// Sentinels matched by errors.Is against an *Error of the same Kind.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrConnection    = errors.New("connection error")
	ErrSchema        = errors.New("schema error")
	ErrWrite         = errors.New("write error")
)

// ErrInvalidState is returned when an operation is called out of order, on a
// failed session or after Close. It does not change the session state.
var ErrInvalidState = errors.New("invalid session state")

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindConnection:
		return "connection"
	case KindSchema:
		return "schema"
	case KindWrite:
		return "write"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindConnection:
		return ErrConnection
	case KindSchema:
		return ErrSchema
	case KindWrite:
		return ErrWrite
	}
	return nil
}

// Error is the failure recorded by a Session. SQLState, DriverCode and
// Message carry the driver's view of the failure where one exists.
type Error struct {
	Kind       Kind
	Op         string
	Table      string
	SQLState   string
	DriverCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error: ")
	b.WriteString(e.Op)
	if e.Table != "" {
		b.WriteString(" ")
		b.WriteString(e.Table)
	}
	switch {
	case e.SQLState != "" && e.DriverCode != 0:
		fmt.Fprintf(&b, " [%s/%d]", e.SQLState, e.DriverCode)
	case e.SQLState != "":
		fmt.Fprintf(&b, " [%s]", e.SQLState)
	case e.DriverCode != 0:
		fmt.Fprintf(&b, " [%d]", e.DriverCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}
