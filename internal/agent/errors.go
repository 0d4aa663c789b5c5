package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrRoleTaken indicates a second registration for an occupied role.
	ErrRoleTaken = errors.New("agent role already registered")
	// ErrRoleMissing indicates a required role has no registered agent.
	ErrRoleMissing = errors.New("agent role not registered")
)

// ConnectionError reports the first agent that failed during the
// fixed-order connection sequence. Agents after it were never contacted.
type ConnectionError struct {
	Role   Role
	Reason error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("agent %s failed to connect: %v", e.Role, e.Reason)
}

func (e *ConnectionError) Unwrap() error {
	return e.Reason
}
