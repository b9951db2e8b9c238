// Package schema drops and recreates the four roster tables from the static
// definitions of a storage dialect.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"rosteretl/internal/roster"
	"rosteretl/internal/storage"
)

// Operations reported in StepError.
const (
	OpDrop   = "drop"
	OpCreate = "create"
)

// Statement is one DDL statement of a reset.
type Statement struct {
	Op    string
	Table string
	SQL   string
}

// StepError reports the statement that aborted a reset.
type StepError struct {
	Op    string
	Table string
	Err   error
}

func (e *StepError) Error() string { return fmt.Sprintf("%s table %s: %v", e.Op, e.Table, e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

// Manager resets the schema for one dialect.
type Manager struct {
	d storage.Dialect
}

// NewManager returns a Manager using d's quoting and table definitions.
func NewManager(d storage.Dialect) *Manager { return &Manager{d: d} }

// Statements lists the reset in execution order: drops in reverse creation
// order, then creates in roster.CreateOrder.
func (m *Manager) Statements() ([]Statement, error) {
	out := make([]Statement, 0, 2*len(roster.CreateOrder))
	for i := len(roster.CreateOrder) - 1; i >= 0; i-- {
		t := roster.CreateOrder[i]
		out = append(out, Statement{Op: OpDrop, Table: t, SQL: "DROP TABLE IF EXISTS " + m.d.Quote(t)})
	}
	for _, t := range roster.CreateOrder {
		ddl, ok := m.d.CreateTable(t)
		if !ok {
			return nil, errors.Errorf("%s: no definition for table %s", m.d.Kind(), t)
		}
		out = append(out, Statement{Op: OpCreate, Table: t, SQL: ddl})
	}
	return out, nil
}

// Reset runs Statements one by one on ex. The first failure aborts the reset
// and is returned as a *StepError wrapping the driver error.
func (m *Manager) Reset(ctx context.Context, ex storage.Execer) error {
	stmts, err := m.Statements()
	if err != nil {
		return err
	}
	for _, s := range stmts {
		if _, err := ex.ExecContext(ctx, s.SQL); err != nil {
			return &StepError{Op: s.Op, Table: s.Table, Err: err}
		}
	}
	return nil
}

// Script renders the create statements as a single SQL script.
func (m *Manager) Script() (string, error) {
	stmts, err := m.Statements()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, s := range stmts {
		if s.Op != OpCreate {
			continue
		}
		b.WriteString(s.SQL)
		b.WriteString(";\n\n")
	}
	return b.String(), nil
}
