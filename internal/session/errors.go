package session

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionAbsent means no identity could be resolved from any tier.
	ErrSessionAbsent = errors.New("no active session")
	// ErrSessionDecode matches any DecodeError via errors.Is.
	ErrSessionDecode = errors.New("stored session is malformed")
)

// DecodeError reports a stored value that exists but is not a usable identity record.
type DecodeError struct {
	Tier string
	Key  string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("session %s/%s: %v", e.Tier, e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrSessionDecode }
