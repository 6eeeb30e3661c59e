package screen

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy: an operation on the same target is still submitting.
	ErrBusy = errors.New("operation already in progress")
	// ErrConfirmationRequired: remove was called without the user's confirmation.
	ErrConfirmationRequired = errors.New("removal must be confirmed")
	// ErrInactive: the record is already inactive, its remove control is disabled.
	ErrInactive = errors.New("record is already inactive")
)

// ValidationError is a local check that failed before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// OperationError is a failed upstream call, carrying the message to show the user.
type OperationError struct {
	Op      string
	Kind    string
	Status  int
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Kind, e.Message)
}

func (e *OperationError) Unwrap() error { return e.Err }
