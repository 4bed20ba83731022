package github

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthMissing means no token is configured. Upsert refuses before
	// touching the network.
	ErrAuthMissing = errors.New("github token not configured")

	// ErrInvalidConfig means the owner or repository is missing.
	ErrInvalidConfig = errors.New("github owner and repository must be set")
)

// TransportError wraps a failure to talk to the API at all: DNS, TLS,
// connection resets and timeouts.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RejectedError is returned when the API answers the write with anything
// other than 200 or 201.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github rejected write: status %d", e.StatusCode)
	}
	return fmt.Sprintf("github rejected write: status %d: %s", e.StatusCode, e.Message)
}
