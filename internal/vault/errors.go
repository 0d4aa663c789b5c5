package vault

import "errors"

var (
	// ErrNotFound indicates the requested file is not in the vault.
	ErrNotFound = errors.New("file not found in vault")
	// ErrExists indicates an upload collides with a stored id.
	ErrExists = errors.New("file already stored")
)
