package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Filesystem structure:
// {dataDir}/files/{file-id}/
//   content.enc     # encrypted, transfer-optimized content
//   metadata.json   # file metadata

const (
	contentFile  = "content.enc"
	metadataFile = "metadata.json"
)

// storedMetadata is the per-file record persisted to disk.
type storedMetadata struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	OriginalSize  int64    `json:"original_size"`
	OptimizedSize int64    `json:"optimized_size"`
	EncryptedSize int64    `json:"encrypted_size"`
	MimeType      string   `json:"mime_type"`
	ContentHash   string   `json:"content_hash"` // SHA-256 of plaintext
	OwnerID       string   `json:"owner_id"`
	Tags          []string `json:"tags,omitempty"`
	IsPublic      bool     `json:"is_public"`
	AccessLevel   string   `json:"access_level"`
	StoredAt      string   `json:"stored_at"` // RFC3339 format
}

func (m *storedMetadata) storedAt() time.Time {
	t, err := time.Parse(time.RFC3339, m.StoredAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *Store) filesDir() string {
	return filepath.Join(s.dataDir, "files")
}

func (s *Store) fileDir(id string) string {
	return filepath.Join(s.filesDir(), id)
}

// loadMetadata loads one file's metadata from disk.
func (s *Store) loadMetadata(id string) (*storedMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.fileDir(id), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta storedMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}

	return &meta, nil
}

// saveMetadata writes one file's metadata to disk.
func (s *Store) saveMetadata(meta *storedMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.fileDir(meta.ID), metadataFile), data, 0600); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	return nil
}

// listFileIDs scans the files directory for stored entries.
func (s *Store) listFileIDs() ([]string, error) {
	dir := s.filesDir()

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create files directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read files directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, entry.Name(), metadataFile)); err == nil {
			ids = append(ids, entry.Name())
		}
	}

	return ids, nil
}
