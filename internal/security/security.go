// Package security provides the security collaborator contract and
// the consensus gate that fronts every sensitive drive operation.
package security

import (
	"context"

	"github.com/oracledrive/oracledrive/internal/model"
)

// Keeper is the security collaborator: access validation plus the
// encrypt/decrypt primitives applied to file content.
type Keeper interface {
	// ValidateDriveAccess decides whether the drive may initialize.
	ValidateDriveAccess(ctx context.Context) (model.SecurityCheck, error)

	// EncryptData encrypts plaintext content.
	EncryptData(ctx context.Context, plaintext []byte) ([]byte, error)

	// DecryptData decrypts content produced by EncryptData.
	DecryptData(ctx context.Context, ciphertext []byte) ([]byte, error)

	// ValidateFileUpload inspects a file before it is persisted.
	ValidateFileUpload(ctx context.Context, file model.DriveFile) (model.SecurityValidation, error)
}
