// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// A CLI run is short-lived, so instead of exposing a scrape endpoint the
// collected registry is pushed to a Pushgateway on Flush. The job label is
// the Pushgateway grouping key.
package prompush

import (
	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"rosteretl/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter   *prometheus.CounterVec // roster_step_total
	stepDuration  *prometheus.SummaryVec // roster_step_duration_seconds
	rowsCounter   *prometheus.CounterVec // roster_rows_total
	tableDuration *prometheus.SummaryVec // roster_table_write_seconds
	failures      *prometheus.CounterVec // roster_failures_total
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name (often the configured job name).
// gatewayURL: base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, errors.New("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "rosteretl"
	}

	objectives := map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001}
	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		stepCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Pipeline step executions, partitioned by step and status.",
		}, []string{"step", "status"}),
		stepDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.StepDuration,
			Help:       "Duration of pipeline steps in seconds.",
			Objectives: objectives,
		}, []string{"step", "status"}),
		rowsCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Rows written, partitioned by table.",
		}, []string{"table"}),
		tableDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.TableDuration,
			Help:       "Duration of one table write in seconds.",
			Objectives: objectives,
		}, []string{"table"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.FailuresTotal,
			Help: "Failed persistence runs, partitioned by failure kind.",
		}, []string{"kind"}),
	}

	for name, c := range map[string]prometheus.Collector{
		"step counter":    b.stepCounter,
		"step summary":    b.stepDuration,
		"rows counter":    b.rowsCounter,
		"table summary":   b.tableDuration,
		"failure counter": b.failures,
	} {
		if err := b.reg.Register(c); err != nil {
			return nil, errors.Wrapf(err, "prompush: register %s", name)
		}
	}
	return b, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter == nil {
			return
		}
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)

	case metrics.RowsTotal:
		if b.rowsCounter == nil {
			return
		}
		b.rowsCounter.WithLabelValues(labels["table"]).Add(delta)

	case metrics.FailuresTotal:
		if b.failures == nil {
			return
		}
		b.failures.WithLabelValues(labels["kind"]).Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	switch name {
	case metrics.StepDuration:
		if b.stepDuration != nil {
			b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
		}
	case metrics.TableDuration:
		if b.tableDuration != nil {
			b.tableDuration.WithLabelValues(labels["table"]).Observe(value)
		}
	}
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
