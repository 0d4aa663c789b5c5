package security

import "errors"

var (
	// ErrEncryption indicates the encryption primitive failed.
	ErrEncryption = errors.New("encryption failed")
	// ErrDecryption indicates ciphertext could not be decrypted.
	ErrDecryption = errors.New("decryption failed")
	// ErrConsensusDenied indicates the dual-party gate refused the
	// operation, including the missing-verdict case.
	ErrConsensusDenied = errors.New("security consensus denied")
	// ErrAccessDenied indicates drive access validation failed.
	ErrAccessDenied = errors.New("drive access denied")
)
