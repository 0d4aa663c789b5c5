// The file operation pipeline. Every mutation is fronted by the
// dual-party consensus gate; downloads decrypt, listings never do.
//
// INVARIANTS:
// - Denied consensus stops an upload or delete before encryption or
//   any vault mutation
// - Download distinguishes a missing file from a decryption failure
// - No shared mutable state across operations on distinct files
package drive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/oracledrive/oracledrive/internal/logging"
	"github.com/oracledrive/oracledrive/internal/model"
	"github.com/oracledrive/oracledrive/internal/vault"
)

// ConsensusGate is the dual-party security gate slice the pipeline
// consumes.
type ConsensusGate interface {
	CheckConsensus(ctx context.Context) (bool, error)
	CheckFileUpload(ctx context.Context, file model.DriveFile) (model.SecurityValidation, error)
}

// Cryptor encrypts and decrypts file content.
type Cryptor interface {
	EncryptData(ctx context.Context, plaintext []byte) ([]byte, error)
	DecryptData(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// FileStore is the storage collaborator slice the pipeline consumes.
type FileStore interface {
	OptimizeForUpload(ctx context.Context, file model.DriveFile) (model.DriveFile, error)
	RestoreContent(ctx context.Context, optimized []byte) ([]byte, error)
	UploadFile(ctx context.Context, stored model.StoredFile, record vault.UploadRecord) error
	ListInfo(ctx context.Context) ([]model.FileInfo, error)
	DeleteFile(ctx context.Context, id string) error
}

// FileSource retrieves stored files; in production this is an agent.
type FileSource interface {
	GetFile(ctx context.Context, id string) (*model.StoredFile, error)
	ListFiles(ctx context.Context) ([]model.StoredFile, error)
}

// Pipeline runs gated file operations against the vault.
type Pipeline struct {
	gate    ConsensusGate
	cryptor Cryptor
	store   FileStore
	source  FileSource
	state   *StateStore
}

// NewPipeline wires the pipeline. Every collaborator is required.
func NewPipeline(gate ConsensusGate, cryptor Cryptor, store FileStore, source FileSource, state *StateStore) (*Pipeline, error) {
	if gate == nil {
		return nil, fmt.Errorf("consensus gate is required")
	}
	if cryptor == nil {
		return nil, fmt.Errorf("cryptor is required")
	}
	if store == nil {
		return nil, fmt.Errorf("file store is required")
	}
	if source == nil {
		return nil, fmt.Errorf("file source is required")
	}
	if state == nil {
		return nil, fmt.Errorf("state store is required")
	}
	return &Pipeline{gate: gate, cryptor: cryptor, store: store, source: source, state: state}, nil
}

// ManageFiles executes one file operation and reports the outcome as
// a result value. Expected failures (denial, missing file) never
// surface as errors here.
func (p *Pipeline) ManageFiles(ctx context.Context, op model.FileOperation) model.FileResult {
	if !p.state.Get().IsAwake {
		return model.FileFailuref("%v", ErrNotInitialized)
	}

	switch o := op.(type) {
	case model.UploadOp:
		return p.upload(ctx, o.File, o.Metadata)
	case model.DeleteOp:
		return p.delete(ctx, o.ID)
	case model.DownloadOp:
		file, err := p.Download(ctx, o.ID)
		if err != nil {
			return model.FileFailuref("download %s: %v", o.ID, err)
		}
		return model.FileSuccessf("downloaded %s (%d bytes)", file.Name, file.Size)
	case model.ListOp:
		infos, err := p.List(ctx)
		if err != nil {
			return model.FileFailuref("list files: %v", err)
		}
		return model.FileSuccessf("%d files stored", len(infos))
	default:
		return model.FileFailuref("%v: %T", ErrUnknownOperation, op)
	}
}

// upload optimizes, gates, encrypts and persists one file, in that
// order. A denial at either gate returns before encryption runs.
func (p *Pipeline) upload(ctx context.Context, file model.DriveFile, meta model.FileMetadata) model.FileResult {
	log := logging.FromContext(ctx)

	optimized, err := p.store.OptimizeForUpload(ctx, file)
	if err != nil {
		return model.FileFailuref("optimize %s: %v", file.Name, err)
	}

	validation, err := p.gate.CheckFileUpload(ctx, optimized)
	if err != nil {
		return model.FileFailuref("validate %s: %v", file.Name, err)
	}
	if !validation.IsSecure {
		reason := "file rejected by security validation"
		if validation.Threat != nil {
			reason = validation.Threat.Description
		}
		log.Warn("upload rejected", "file", file.Name, "reason", reason)
		return model.FileFailuref("upload %s denied: %s", file.Name, reason)
	}

	approved, err := p.gate.CheckConsensus(ctx)
	if err != nil {
		return model.FileFailuref("consensus for %s: %v", file.Name, err)
	}
	if !approved {
		log.Warn("upload denied by consensus", "file", file.Name)
		return model.FileFailuref("upload %s denied: security consensus failed", file.Name)
	}

	encrypted, err := p.cryptor.EncryptData(ctx, optimized.Content)
	if err != nil {
		return model.FileFailuref("encrypt %s: %v", file.Name, err)
	}

	id := file.ID
	if id == "" {
		id = uuid.NewString()
	}

	stored := model.StoredFile{
		ID:               id,
		Name:             file.Name,
		EncryptedContent: encrypted,
		Timestamp:        time.Now().UTC(),
	}
	meta.Tags = lo.Uniq(meta.Tags)
	record := vault.UploadRecord{
		OriginalSize:  file.Size,
		OptimizedSize: optimized.Size,
		MimeType:      file.MimeType,
		ContentHash:   vault.HashContent(file.Content),
		Metadata:      meta,
	}
	if err := p.store.UploadFile(ctx, stored, record); err != nil {
		return model.FileFailuref("persist %s: %v", file.Name, err)
	}

	log.Info("file uploaded", "id", id, "name", file.Name, "size", file.Size)
	return model.FileSuccessf("uploaded %s as %s", file.Name, id)
}

// delete removes one file after the same consensus discipline as
// upload.
func (p *Pipeline) delete(ctx context.Context, id string) model.FileResult {
	approved, err := p.gate.CheckConsensus(ctx)
	if err != nil {
		return model.FileFailuref("consensus for delete %s: %v", id, err)
	}
	if !approved {
		return model.FileFailuref("delete %s denied: security consensus failed", id)
	}

	if err := p.store.DeleteFile(ctx, id); err != nil {
		return model.FileFailuref("delete %s: %v", id, err)
	}
	return model.FileSuccessf("deleted %s", id)
}

// Download retrieves and decrypts one file. A missing id surfaces the
// source's not-found error; a decryption failure surfaces
// security.ErrDecryption, never the not-found case.
func (p *Pipeline) Download(ctx context.Context, id string) (model.DriveFile, error) {
	if !p.state.Get().IsAwake {
		return model.DriveFile{}, ErrNotInitialized
	}

	stored, err := p.source.GetFile(ctx, id)
	if err != nil {
		return model.DriveFile{}, err
	}

	optimized, err := p.cryptor.DecryptData(ctx, stored.EncryptedContent)
	if err != nil {
		return model.DriveFile{}, err
	}

	content, err := p.store.RestoreContent(ctx, optimized)
	if err != nil {
		return model.DriveFile{}, fmt.Errorf("restore %s: %w", id, err)
	}

	return model.DriveFile{
		ID:      stored.ID,
		Name:    stored.Name,
		Content: content,
		Size:    int64(len(content)),
	}, nil
}

// List returns the metadata-only listing. Decryption never runs: the
// projection reads metadata records, not content.
func (p *Pipeline) List(ctx context.Context) ([]model.FileInfo, error) {
	if !p.state.Get().IsAwake {
		return nil, ErrNotInitialized
	}

	infos, err := p.store.ListInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return infos, nil
}

// Names returns the stored file names, metadata-only.
func (p *Pipeline) Names(ctx context.Context) ([]string, error) {
	infos, err := p.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(infos, func(info model.FileInfo, _ int) string {
		return info.Name
	}), nil
}
