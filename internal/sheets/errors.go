package sheets

import (
	"errors"
	"fmt"
)

// ErrTimeout reports that the callback transport gave up after its fixed
// deadline. The direct transport relies on the HTTP client's own timeout.
var ErrTimeout = errors.New("request timed out")

// ConnectError means the web app could not be reached or refused the
// handshake. Callers treat it as "stay disconnected", not data loss.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to spreadsheet: %v", e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ReadError wraps a failure fetching one sheet. Imports log these and
// continue with the remaining sheets.
type ReadError struct {
	Sheet string
	Err   error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read sheet %s: %v", e.Sheet, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps a failed mutation. Batch exports fail as a whole on
// the first one.
type WriteError struct {
	Action string
	Sheet  string
	Err    error
}

func (e *WriteError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("%s failed for sheet %s: %v", e.Action, e.Sheet, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// apiError is the remote reporting success=false with a message.
type apiError struct {
	Action  string
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("remote rejected %s: %s", e.Action, e.Message)
}
