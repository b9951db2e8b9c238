// Package metrics records operational metrics of roster runs behind a small,
// backend-agnostic interface.
//
// The default backend is a no-op, so the record functions are always safe to
// call. A concrete backend (prompush, datadog) is installed once at startup
// with SetBackend.
package metrics

import "time"

// Metric names shared by all backends.
const (
	StepTotal     = "roster_step_total"
	StepDuration  = "roster_step_duration_seconds"
	RowsTotal     = "roster_rows_total"
	TableDuration = "roster_table_write_seconds"
	FailuresTotal = "roster_failures_total"
)

// Values of the status label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep counts one execution of a pipeline step (fetch, parse,
// normalize, persist, ...) and records its latency.
func RecordStep(job, step string, err error, d time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordTable counts rows written to one table and records the write latency.
func RecordTable(job, table string, rows int64, d time.Duration) {
	lbls := Labels{"job": job, "table": table}
	if rows > 0 {
		backend.IncCounter(RowsTotal, float64(rows), lbls)
	}
	backend.ObserveHistogram(TableDuration, d.Seconds(), lbls)
}

// RecordFailure counts a failed persistence run by failure kind.
func RecordFailure(job, kind string) {
	backend.IncCounter(FailuresTotal, 1, Labels{"job": job, "kind": kind})
}
