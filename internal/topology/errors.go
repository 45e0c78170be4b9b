package topology

import (
	"errors"
	"fmt"
)

// ErrEmptyTopology is returned when submitting a topology with no sources.
var ErrEmptyTopology = errors.New("topology declares no sources")

// ErrClosed is returned by Submit when the execution was closed while starting.
var ErrClosed = errors.New("execution closed before it started")

// activationError wraps a panic raised by a source's Activate.
type activationError struct {
	topology string
	cause    any
}

func (e activationError) Error() string {
	return "activate source in topology " + e.topology + ": " + fmt.Sprint(e.cause)
}

// IsActivationError reports whether err came from a failed source activation.
func IsActivationError(err error) bool {
	_, ok := err.(activationError)
	return ok
}
