// Package persist drives one persistence run of a normalized roster: connect,
// create and select the database, reset the schema, then write the four
// tables in dependency order.
//
// A Session owns one dedicated connection for its whole life. It is not safe
// for concurrent use, except for State, Status, LastError and RunID which may
// be read from other goroutines.
package persist

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rosteretl/internal/roster"
	"rosteretl/internal/schema"
	"rosteretl/internal/storage"
)

// Opener opens and pings a connection pool.
type Opener func(ctx context.Context, driverName, dsn string) (*sqlx.DB, error)

// Operation names used in Error.Op.
const (
	OpConfigure = "configure"
	OpConnect   = "connect"
	OpCreateDB  = "create database"
	OpSelectDB  = "select database"
	OpReset     = "reset schema"
	OpWrite     = "write"
	OpCommit    = "commit"
)

// Session persists one roster into one database.
type Session struct {
	params  storage.Params
	dialect storage.Dialect
	writer  *storage.Writer
	schema  *schema.Manager

	obs    Observer
	open   Opener
	atomic bool
	runID  string

	db   *sqlx.DB
	conn *sqlx.Conn

	mu      sync.RWMutex
	state   State
	table   string
	lastErr *Error
	closed  bool
}

// New validates p and resolves its dialect. Nothing is opened until Connect.
// A failure is returned as a configuration *Error.
func New(p storage.Params, opts ...Option) (*Session, error) {
	s := &Session{
		params: p,
		obs:    NopObserver{},
		open:   sqlx.ConnectContext,
		runID:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := p.Validate(); err != nil {
		return nil, s.configError(err)
	}
	d, err := storage.Lookup(p.Driver)
	if err != nil {
		return nil, s.configError(err)
	}
	if _, err := d.DSN(p, false); err != nil {
		return nil, s.configError(err)
	}

	s.dialect = d
	s.writer = storage.NewWriter(d)
	s.schema = schema.NewManager(d)
	return s, nil
}

func (s *Session) configError(err error) *Error {
	e := &Error{Kind: KindConfiguration, Op: OpConfigure, Message: err.Error(), Err: err}
	s.obs.Failed(s.runID, e)
	return e
}

// RunID identifies this session in logs and metrics.
func (s *Session) RunID() string { return s.runID }

// Dialect returns the resolved storage dialect.
func (s *Session) Dialect() storage.Dialect { return s.dialect }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Status renders the state, including the table while writing.
func (s *Session) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == StateWriting {
		return s.state.String() + "(" + s.table + ")"
	}
	return s.state.String()
}

// LastError returns the failure that moved the session to Failed, or nil.
func (s *Session) LastError() *Error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Persist runs Connect, ResetSchema and Write in sequence and stops at the
// first failure. The caller still owns the session and must Close it.
func (s *Session) Persist(ctx context.Context, r *roster.Roster) error {
	if err := s.Connect(ctx); err != nil {
		return err
	}
	if err := s.ResetSchema(ctx); err != nil {
		return err
	}
	return s.Write(ctx, r)
}

// Connect opens a server-level connection, creates the database if missing
// and selects it on a dedicated connection.
func (s *Session) Connect(ctx context.Context) error {
	if err := s.expect(StateDisconnected); err != nil {
		return err
	}
	s.move(StateConnecting, "")

	serverDSN, err := s.dialect.DSN(s.params, false)
	if err != nil {
		return s.fail(KindConfiguration, OpConfigure, "", err)
	}
	if err := s.attach(ctx, serverDSN); err != nil {
		return s.fail(KindConnection, OpConnect, "", err)
	}
	if err := s.dialect.CreateDatabase(ctx, s.conn, s.params.Database); err != nil {
		return s.fail(KindConnection, OpCreateDB, "", err)
	}

	if use := s.dialect.UseDatabase(s.params.Database); use != "" {
		if _, err := s.conn.ExecContext(ctx, use); err != nil {
			return s.fail(KindConnection, OpSelectDB, "", err)
		}
	} else {
		dbDSN, err := s.dialect.DSN(s.params, true)
		if err != nil {
			return s.fail(KindConfiguration, OpConfigure, "", err)
		}
		if dbDSN != serverDSN {
			s.release()
			if err := s.attach(ctx, dbDSN); err != nil {
				return s.fail(KindConnection, OpSelectDB, "", err)
			}
		}
	}

	s.move(StateConnected, "")
	return nil
}

// attach opens a pool for dsn and takes one dedicated connection from it.
func (s *Session) attach(ctx context.Context, dsn string) error {
	db, err := s.open(ctx, s.dialect.DriverName(), dsn)
	if err != nil {
		return err
	}
	conn, err := db.Connx(ctx)
	if err != nil {
		_ = db.Close()
		return err
	}
	s.db, s.conn = db, conn
	return nil
}

// ResetSchema drops and recreates the four tables.
func (s *Session) ResetSchema(ctx context.Context) error {
	if err := s.expect(StateConnected); err != nil {
		return err
	}
	if err := s.schema.Reset(ctx, s.conn); err != nil {
		var se *schema.StepError
		table := ""
		if errors.As(err, &se) {
			table = se.Table
		}
		return s.fail(KindSchema, OpReset, table, err)
	}
	s.move(StateSchemaReset, "")
	return nil
}

// Write inserts the roster's tables in roster.WriteOrder and stops at the
// first failing table. Without WithAtomicWrites, tables written before the
// failure stay committed; with it, the whole write is rolled back.
func (s *Session) Write(ctx context.Context, r *roster.Roster) error {
	if err := s.expect(StateSchemaReset); err != nil {
		return err
	}
	if r == nil {
		r = &roster.Roster{}
	}

	var (
		ex storage.Execer = s.conn
		tx *sqlx.Tx
	)
	if s.atomic {
		var err error
		if tx, err = s.conn.BeginTxx(ctx, nil); err != nil {
			return s.fail(KindWrite, OpWrite, "", err)
		}
		ex = tx
	}

	for _, t := range r.Tables() {
		s.move(StateWriting, t.Name)
		if err := ctx.Err(); err != nil {
			rollback(tx)
			return s.fail(KindWrite, OpWrite, t.Name, err)
		}

		start := time.Now()
		n, err := s.writer.WriteTable(ctx, ex, t.Name, t.Rows)
		if err != nil {
			rollback(tx)
			return s.fail(KindWrite, OpWrite, t.Name, err)
		}
		s.obs.TableWritten(s.runID, t.Name, n, time.Since(start))
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return s.fail(KindWrite, OpCommit, "", err)
		}
	}
	s.move(StateDone, "")
	return nil
}

func rollback(tx *sqlx.Tx) {
	if tx != nil {
		_ = tx.Rollback()
	}
}

// Close releases the dedicated connection and the pool. It is safe to call
// more than once and in any state.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.release()
}

func (s *Session) release() error {
	var first error
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			first = err
		}
		s.conn = nil
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil && first == nil {
			first = err
		}
		s.db = nil
	}
	return first
}

func (s *Session) expect(want State) error {
	s.mu.RLock()
	state, closed := s.state, s.closed
	s.mu.RUnlock()
	switch {
	case closed:
		return errors.Wrap(ErrInvalidState, "session closed")
	case state != want:
		return errors.Wrapf(ErrInvalidState, "state is %s, want %s", state, want)
	}
	return nil
}

func (s *Session) move(to State, table string) {
	s.mu.Lock()
	from := s.state
	if !canMove(from, to) {
		s.mu.Unlock()
		panic("persist: illegal transition " + from.String() + " -> " + to.String())
	}
	s.state, s.table = to, table
	s.mu.Unlock()
	s.obs.StateChanged(s.runID, from, to, table)
}

// fail records err as the last error and moves the session to Failed.
func (s *Session) fail(kind Kind, op, table string, err error) *Error {
	de := storage.ExtractDriverError(s.dialect, err)
	e := &Error{
		Kind:       kind,
		Op:         op,
		Table:      table,
		SQLState:   de.SQLState,
		DriverCode: de.Code,
		Message:    de.Message,
		Err:        err,
	}

	s.mu.Lock()
	s.lastErr = e
	s.mu.Unlock()

	s.obs.Failed(s.runID, e)
	s.move(StateFailed, table)
	return e
}
