package upstream

import (
	"errors"
	"fmt"
)

// RemoteError is a failed upstream call. Status is 0 when no response arrived.
type RemoteError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("upstream unreachable: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("upstream returned %d", e.Status)
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

// ServerMessage extracts the server-supplied message from err, if any.
func ServerMessage(err error) string {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Message
	}
	return ""
}

// StatusOf returns the upstream status carried by err, 0 if none.
func StatusOf(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
