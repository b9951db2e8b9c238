package persist

import "fmt"

// State is the position of a Session in its lifecycle. States only move
// forward; Failed is terminal and reachable from any other state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateSchemaReset
	StateWriting
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateDisconnected: "disconnected",
	StateConnecting:   "connecting",
	StateConnected:    "connected",
	StateSchemaReset:  "schema_reset",
	StateWriting:      "writing",
	StateDone:         "done",
	StateFailed:       "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// canMove reports whether from -> to is allowed. Writing may repeat, once per
// table.
func canMove(from, to State) bool {
	switch {
	case from == StateFailed:
		return false
	case to == StateFailed:
		return true
	case from == StateWriting && to == StateWriting:
		return true
	}
	return to == from+1
}
