package drive

import "errors"

var (
	// ErrNotInitialized indicates a file operation arrived before a
	// successful initialization cycle.
	ErrNotInitialized = errors.New("drive not initialized")
	// ErrUnknownOperation indicates an unrecognized file operation
	// variant.
	ErrUnknownOperation = errors.New("unknown file operation")
)
