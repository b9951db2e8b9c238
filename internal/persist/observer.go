package persist

import "time"

// Observer receives the progress of a Session. Calls are made synchronously
// from the goroutine driving the session.
type Observer interface {
	StateChanged(runID string, from, to State, table string)
	TableWritten(runID, table string, rows int64, took time.Duration)
	Failed(runID string, err *Error)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) StateChanged(string, State, State, string)         {}
func (NopObserver) TableWritten(string, string, int64, time.Duration) {}
func (NopObserver) Failed(string, *Error)                             {}
