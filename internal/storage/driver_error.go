package storage

import "fmt"

// DriverError is the engine-native part of a failure: the five-character
// SQLSTATE where the engine reports one, the numeric vendor code and the
// server message.
type DriverError struct {
	SQLState string
	Code     int
	Message  string
}

func (e DriverError) String() string {
	switch {
	case e.SQLState != "" && e.Code != 0:
		return fmt.Sprintf("[%s/%d] %s", e.SQLState, e.Code, e.Message)
	case e.SQLState != "":
		return fmt.Sprintf("[%s] %s", e.SQLState, e.Message)
	case e.Code != 0:
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}
	return e.Message
}

// ExtractDriverError asks d for native details and falls back to the plain
// error text.
func ExtractDriverError(d Dialect, err error) DriverError {
	if err == nil {
		return DriverError{}
	}
	if d != nil {
		if de, ok := d.DriverError(err); ok {
			return de
		}
	}
	return DriverError{Message: err.Error()}
}
