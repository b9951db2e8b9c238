// Package observer provides persist.Observer implementations that forward
// session events to the logger and the metrics backend.
package observer

import (
	"time"

	"github.com/rs/zerolog"

	"rosteretl/internal/metrics"
	"rosteretl/internal/persist"
)

// Log writes session events to a zerolog logger. State changes are logged at
// debug level, table writes at info and failures at error.
type Log struct {
	l *zerolog.Logger
}

func NewLog(l *zerolog.Logger) *Log { return &Log{l: l} }

func (o *Log) StateChanged(runID string, from, to persist.State, table string) {
	ev := o.l.Debug().Str("run_id", runID).Stringer("from", from).Stringer("to", to)
	if table != "" {
		ev = ev.Str("table", table)
	}
	ev.Msg("session state")
}

func (o *Log) TableWritten(runID, table string, rows int64, took time.Duration) {
	o.l.Info().
		Str("run_id", runID).
		Str("table", table).
		Int64("rows", rows).
		Dur("took", took).
		Msg("table written")
}

func (o *Log) Failed(runID string, err *persist.Error) {
	ev := o.l.Error().
		Str("run_id", runID).
		Stringer("kind", err.Kind).
		Str("op", err.Op)
	if err.Table != "" {
		ev = ev.Str("table", err.Table)
	}
	if err.SQLState != "" {
		ev = ev.Str("sqlstate", err.SQLState)
	}
	if err.DriverCode != 0 {
		ev = ev.Int("driver_code", err.DriverCode)
	}
	ev.Str("error", err.Message).Msg("session failed")
}

// Metrics records table writes and failures through the metrics package,
// labelled with job.
type Metrics struct {
	job string
}

func NewMetrics(job string) *Metrics { return &Metrics{job: job} }

func (*Metrics) StateChanged(string, persist.State, persist.State, string) {}

func (m *Metrics) TableWritten(_ string, table string, rows int64, took time.Duration) {
	metrics.RecordTable(m.job, table, rows, took)
}

func (m *Metrics) Failed(_ string, err *persist.Error) {
	metrics.RecordFailure(m.job, err.Kind.String())
}

// Multi fans every event out to each observer in order.
type Multi []persist.Observer

func (m Multi) StateChanged(runID string, from, to persist.State, table string) {
	for _, o := range m {
		o.StateChanged(runID, from, to, table)
	}
}

func (m Multi) TableWritten(runID, table string, rows int64, took time.Duration) {
	for _, o := range m {
		o.TableWritten(runID, table, rows, took)
	}
}

func (m Multi) Failed(runID string, err *persist.Error) {
	for _, o := range m {
		o.Failed(runID, err)
	}
}
