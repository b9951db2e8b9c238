package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	callsCounters   []counterCall
	callsHistograms []histCall
	flushCount      int
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type histCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsCounters = append(f.callsCounters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsHistograms = append(f.callsHistograms, histCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
	return nil
}

func swapBackend(t *testing.T) *fakeBackend {
	t.Helper()
	orig := backend
	t.Cleanup(func() { backend = orig })
	fb := &fakeBackend{}
	backend = fb
	return fb
}

func TestRecordStep_SuccessAndFailure(t *testing.T) {
	fb := swapBackend(t)

	RecordStep("nightly", "fetch", nil, 2*time.Second)
	RecordStep("nightly", "persist", errors.New("boom"), 1500*time.Millisecond)

	require.Len(t, fb.callsCounters, 2)
	require.Len(t, fb.callsHistograms, 2)

	assert.Equal(t, counterCall{StepTotal, 1, Labels{"job": "nightly", "step": "fetch", "status": "success"}}, fb.callsCounters[0])
	assert.Equal(t, StepDuration, fb.callsHistograms[0].name)
	assert.InDelta(t, 2.0, fb.callsHistograms[0].value, 0.001)

	assert.Equal(t, "failure", fb.callsCounters[1].labels["status"])
	assert.Equal(t, "persist", fb.callsCounters[1].labels["step"])
	assert.InDelta(t, 1.5, fb.callsHistograms[1].value, 0.001)
}

func TestRecordTable(t *testing.T) {
	fb := swapBackend(t)

	RecordTable("nightly", "teams", 3, 250*time.Millisecond)
	RecordTable("nightly", "members", 0, time.Millisecond)

	require.Len(t, fb.callsCounters, 1, "empty tables add no rows")
	assert.Equal(t, counterCall{RowsTotal, 3, Labels{"job": "nightly", "table": "teams"}}, fb.callsCounters[0])

	require.Len(t, fb.callsHistograms, 2)
	assert.Equal(t, TableDuration, fb.callsHistograms[1].name)
	assert.Equal(t, "members", fb.callsHistograms[1].labels["table"])
}

func TestRecordFailure(t *testing.T) {
	fb := swapBackend(t)

	RecordFailure("nightly", "write")

	require.Len(t, fb.callsCounters, 1)
	assert.Equal(t, counterCall{FailuresTotal, 1, Labels{"job": "nightly", "kind": "write"}}, fb.callsCounters[0])
}

func TestSetBackendAndFlush(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	fb := &fakeBackend{}
	SetBackend(fb)
	assert.Same(t, fb, backend)

	require.NoError(t, Flush())
	assert.Equal(t, 1, fb.flushCount)

	SetBackend(nil)
	assert.Same(t, fb, backend, "SetBackend(nil) must keep the backend")
}
