// AES-256-GCM keeper with an argon2id passphrase KDF.
//
// Ciphertext layout: salt || nonce || sealed. Each encryption draws a
// fresh salt and nonce, so equal plaintexts never share ciphertext.
package security

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/oracledrive/oracledrive/internal/model"
)

const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // 64 MB
	argonThreads = 4
	keyLen       = 32 // 256 bits
	saltLen      = 32
	gcmNonceLen  = 12

	// maxUploadSize caps single-file uploads at 512 MB.
	maxUploadSize = 512 * 1024 * 1024

	keycheckFile      = "keycheck"
	keycheckPlaintext = "oracle-drive-keycheck-v1"
)

// blockedExtensions are rejected at upload validation.
var blockedExtensions = []string{".exe", ".dll", ".so", ".dylib", ".bat", ".cmd"}

// VaultKeeper implements Keeper over a passphrase-derived key with a
// keycheck token persisted under dataDir to detect wrong passphrases.
type VaultKeeper struct {
	passphrase string
	dataDir    string
}

// NewVaultKeeper creates a keeper. The passphrase must be non-empty.
func NewVaultKeeper(passphrase, dataDir string) (*VaultKeeper, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase is required")
	}
	if dataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	return &VaultKeeper{passphrase: passphrase, dataDir: dataDir}, nil
}

// ValidateDriveAccess proves the passphrase against the persisted
// keycheck token. The first call on a fresh data directory writes the
// token; later calls fail closed if it cannot be decrypted.
func (k *VaultKeeper) ValidateDriveAccess(ctx context.Context) (model.SecurityCheck, error) {
	path := filepath.Join(k.dataDir, keycheckFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := k.writeKeycheck(ctx, path); err != nil {
			return model.SecurityCheck{IsValid: false, Reason: "Failed to establish credentials"}, nil
		}
		return model.SecurityCheck{IsValid: true}, nil
	}
	if err != nil {
		return model.SecurityCheck{}, fmt.Errorf("read keycheck: %w", err)
	}

	plain, err := k.DecryptData(ctx, data)
	if err != nil || string(plain) != keycheckPlaintext {
		return model.SecurityCheck{IsValid: false, Reason: "Invalid credentials"}, nil
	}

	return model.SecurityCheck{IsValid: true}, nil
}

func (k *VaultKeeper) writeKeycheck(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	sealed, err := k.EncryptData(ctx, []byte(keycheckPlaintext))
	if err != nil {
		return err
	}
	return os.WriteFile(path, sealed, 0600)
}

// EncryptData seals plaintext under a fresh salt and nonce.
func (k *VaultKeeper) EncryptData(ctx context.Context, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("%w: generate salt: %v", ErrEncryption, err)
	}

	gcm, err := k.aead(salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryption, err)
	}

	nonce := make([]byte, gcmNonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: generate nonce: %v", ErrEncryption, err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 0, saltLen+gcmNonceLen+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

// DecryptData opens ciphertext produced by EncryptData.
func (k *VaultKeeper) DecryptData(ctx context.Context, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < saltLen+gcmNonceLen {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecryption)
	}

	salt := ciphertext[:saltLen]
	nonce := ciphertext[saltLen : saltLen+gcmNonceLen]
	sealed := ciphertext[saltLen+gcmNonceLen:]

	gcm, err := k.aead(salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryption, err)
	}

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	return plain, nil
}

func (k *VaultKeeper) aead(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(k.passphrase), salt, argonTime, argonMemory, argonThreads, keyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// ValidateFileUpload rejects oversized files and blocked executable
// types. Anything else passes.
func (k *VaultKeeper) ValidateFileUpload(ctx context.Context, file model.DriveFile) (model.SecurityValidation, error) {
	if file.Size > maxUploadSize {
		return model.SecurityValidation{
			IsSecure: false,
			Threat: &model.SecurityThreat{
				Type:        "oversized_file",
				Severity:    model.ThreatSeverityMedium,
				Description: fmt.Sprintf("file exceeds %d byte limit", maxUploadSize),
			},
		}, nil
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	for _, blocked := range blockedExtensions {
		if ext == blocked {
			return model.SecurityValidation{
				IsSecure: false,
				Threat: &model.SecurityThreat{
					Type:        "blocked_file_type",
					Severity:    model.ThreatSeverityHigh,
					Description: fmt.Sprintf("file type %s is not allowed", ext),
				},
			}, nil
		}
	}

	return model.SecurityValidation{IsSecure: true}, nil
}
