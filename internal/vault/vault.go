// Package vault is the local storage collaborator: it optimizes file
// content for transfer, persists encrypted blobs with their metadata,
// and reports storage optimization statistics.
//
// INVARIANTS:
// - Persisted content arrives already encrypted; the vault never sees
//   plaintext after OptimizeForUpload returns
// - Listing reads metadata.json only, never content.enc
package vault

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/oracledrive/oracledrive/internal/model"
)

// Store is the filesystem-backed storage collaborator.
type Store struct {
	dataDir string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewStore creates a store rooted at dataDir. level maps onto zstd
// encoder levels (1 fastest, 4 best).
func NewStore(dataDir string, level int) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	s := &Store{dataDir: dataDir, encoder: enc, decoder: dec}
	if err := os.MkdirAll(s.filesDir(), 0700); err != nil {
		return nil, fmt.Errorf("create files directory: %w", err)
	}
	return s, nil
}

// OptimizeForUpload returns a copy of the file with zstd-compressed
// content. The original file is untouched.
func (s *Store) OptimizeForUpload(ctx context.Context, file model.DriveFile) (model.DriveFile, error) {
	compressed := s.encoder.EncodeAll(file.Content, nil)
	return file.WithContent(compressed), nil
}

// RestoreContent reverses OptimizeForUpload on decrypted content.
func (s *Store) RestoreContent(ctx context.Context, optimized []byte) ([]byte, error) {
	restored, err := s.decoder.DecodeAll(optimized, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress content: %w", err)
	}
	return restored, nil
}

// UploadRecord carries the provenance of an upload: sizes at each
// pipeline stage plus caller metadata.
type UploadRecord struct {
	OriginalSize  int64
	OptimizedSize int64
	MimeType      string
	ContentHash   string // SHA-256 of plaintext, hex
	Metadata      model.FileMetadata
}

// HashContent computes the plaintext content hash used for upload
// records and deduplication accounting.
func HashContent(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// UploadFile persists an encrypted file and its metadata.
func (s *Store) UploadFile(ctx context.Context, stored model.StoredFile, record UploadRecord) error {
	dir := s.fileDir(stored.ID)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, stored.ID)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create file directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, contentFile), stored.EncryptedContent, 0600); err != nil {
		return fmt.Errorf("write content: %w", err)
	}

	meta := &storedMetadata{
		ID:            stored.ID,
		Name:          stored.Name,
		OriginalSize:  record.OriginalSize,
		OptimizedSize: record.OptimizedSize,
		EncryptedSize: int64(len(stored.EncryptedContent)),
		MimeType:      record.MimeType,
		ContentHash:   record.ContentHash,
		OwnerID:       record.Metadata.OwnerID,
		Tags:          record.Metadata.Tags,
		IsPublic:      record.Metadata.IsPublic,
		AccessLevel:   string(record.Metadata.AccessLevel),
		StoredAt:      stored.Timestamp.UTC().Format(time.RFC3339),
	}
	if err := s.saveMetadata(meta); err != nil {
		return err
	}

	return nil
}

// GetFile retrieves a stored file by id.
func (s *Store) GetFile(ctx context.Context, id string) (*model.StoredFile, error) {
	meta, err := s.loadMetadata(id)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(s.fileDir(id), contentFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read content: %w", err)
	}

	return &model.StoredFile{
		ID:               meta.ID,
		Name:             meta.Name,
		EncryptedContent: content,
		Timestamp:        meta.storedAt(),
	}, nil
}

// ListFiles returns all stored files with their encrypted content.
func (s *Store) ListFiles(ctx context.Context) ([]model.StoredFile, error) {
	ids, err := s.listFileIDs()
	if err != nil {
		return nil, err
	}

	files := make([]model.StoredFile, 0, len(ids))
	for _, id := range ids {
		f, err := s.GetFile(ctx, id)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, nil
}

// ListInfo returns the metadata-only listing. Content is never read.
func (s *Store) ListInfo(ctx context.Context) ([]model.FileInfo, error) {
	ids, err := s.listFileIDs()
	if err != nil {
		return nil, err
	}

	infos := make([]model.FileInfo, 0, len(ids))
	for _, id := range ids {
		meta, err := s.loadMetadata(id)
		if err != nil {
			return nil, err
		}
		infos = append(infos, model.FileInfo{
			ID:        meta.ID,
			Name:      meta.Name,
			Timestamp: meta.storedAt(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// FileDetail is the full metadata view of a stored file, used by
// metadata synchronization. Content is never read.
type FileDetail struct {
	Info     model.FileInfo
	Metadata model.FileMetadata
	Size     int64
	MimeType string
}

// ListDetails returns the full metadata for every stored file.
func (s *Store) ListDetails(ctx context.Context) ([]FileDetail, error) {
	ids, err := s.listFileIDs()
	if err != nil {
		return nil, err
	}

	details := make([]FileDetail, 0, len(ids))
	for _, id := range ids {
		meta, err := s.loadMetadata(id)
		if err != nil {
			return nil, err
		}
		details = append(details, FileDetail{
			Info: model.FileInfo{
				ID:        meta.ID,
				Name:      meta.Name,
				Timestamp: meta.storedAt(),
			},
			Metadata: model.FileMetadata{
				OwnerID:     meta.OwnerID,
				Tags:        meta.Tags,
				IsPublic:    meta.IsPublic,
				AccessLevel: model.AccessLevel(meta.AccessLevel),
			},
			Size:     meta.OriginalSize,
			MimeType: meta.MimeType,
		})
	}
	return details, nil
}

// DeleteFile removes a stored file and its metadata.
func (s *Store) DeleteFile(ctx context.Context, id string) error {
	if _, err := s.loadMetadata(id); err != nil {
		return err
	}
	if err := os.RemoveAll(s.fileDir(id)); err != nil {
		return fmt.Errorf("remove file directory: %w", err)
	}
	return nil
}

// OptimizeStorage scans the vault and reports compression ratio and
// deduplication savings across stored files.
func (s *Store) OptimizeStorage(ctx context.Context) (model.StorageOptimization, error) {
	ids, err := s.listFileIDs()
	if err != nil {
		return model.StorageOptimization{}, err
	}

	var originalTotal, optimizedTotal int64
	seen := make(map[string]int64)
	var dedupSavings int64

	for _, id := range ids {
		meta, err := s.loadMetadata(id)
		if err != nil {
			return model.StorageOptimization{}, err
		}
		originalTotal += meta.OriginalSize
		optimizedTotal += meta.OptimizedSize

		// A repeated content hash means the plaintext is already
		// stored under another id.
		if _, dup := seen[meta.ContentHash]; dup {
			dedupSavings += meta.OriginalSize
		} else {
			seen[meta.ContentHash] = meta.OriginalSize
		}
	}

	ratio := 0.0
	if originalTotal > 0 {
		ratio = float64(optimizedTotal) / float64(originalTotal)
		if ratio > 1.0 {
			ratio = 1.0
		}
	}

	return model.StorageOptimization{
		CompressionRatio:          ratio,
		DeduplicationSavings:      dedupSavings,
		IntelligentTieringEnabled: true,
	}, nil
}

// Usage returns total encrypted bytes on disk.
func (s *Store) Usage(ctx context.Context) (int64, error) {
	var total int64
	err := filepath.Walk(s.filesDir(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Base(path) == contentFile {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk files directory: %w", err)
	}
	return total, nil
}

// Close releases the compression codecs.
func (s *Store) Close() error {
	s.decoder.Close()
	return s.encoder.Close()
}
