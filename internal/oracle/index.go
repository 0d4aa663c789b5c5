// Package oracle provides the remote metadata collaborator: an
// encrypted SQLite index of stored files plus the consciousness
// awakening and metadata synchronization operations.
//
// INVARIANTS:
// - The index is encrypted at rest via SQLCipher when a passphrase
//   is configured
// - The index holds metadata only, never file content
package oracle

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mutecomm/go-sqlcipher/v4"
)

// FileRecord is one row of the metadata index.
type FileRecord struct {
	ID          string
	Name        string
	Size        int64
	MimeType    string
	OwnerID     string
	AccessLevel string
	Tags        []string
	IsPublic    bool
	UploadedAt  time.Time
}

// Index manages the encrypted SQLite metadata index.
type Index struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// OpenIndex opens (creating if needed) the metadata index at dbPath.
// If passphrase is empty the database is opened without encryption;
// otherwise a wrong passphrase fails the open.
func OpenIndex(dbPath string, passphrase string) (*Index, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	var dsn string
	if passphrase != "" {
		dsn = fmt.Sprintf("file:%s?_pragma_key=%s&_journal_mode=WAL&_synchronous=NORMAL", dbPath, passphrase)
	} else {
		dsn = fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", dbPath)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if passphrase != "" {
		// This fails if the key is wrong.
		var version string
		if err := db.QueryRow("SELECT sqlite_version()").Scan(&version); err != nil {
			db.Close()
			return nil, fmt.Errorf("invalid passphrase or corrupted database: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &Index{db: db, dbPath: dbPath}, nil
}

// Initialize creates the schema if it doesn't exist.
func (ix *Index) Initialize(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	schema := `
-- Oracle Drive metadata index schema v1

CREATE TABLE IF NOT EXISTS drive_files (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    size            INTEGER NOT NULL DEFAULT 0,
    mime_type       TEXT,
    owner_id        TEXT NOT NULL,
    access_level    TEXT NOT NULL DEFAULT 'private'
                    CHECK(access_level IN ('private', 'shared', 'public')),
    tags            TEXT,
    is_public       INTEGER NOT NULL DEFAULT 0,
    uploaded_at     TEXT NOT NULL DEFAULT (datetime('now')),
    synced_at       TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_drive_files_owner ON drive_files(owner_id);
CREATE INDEX IF NOT EXISTS idx_drive_files_name ON drive_files(name);

-- Sync passes (observational)
CREATE TABLE IF NOT EXISTS sync_runs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at      TEXT NOT NULL DEFAULT (datetime('now')),
    records_updated INTEGER NOT NULL DEFAULT 0,
    error_count     INTEGER NOT NULL DEFAULT 0
);
`

	if _, err := ix.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// UpsertFile inserts or refreshes one file record.
func (ix *Index) UpsertFile(ctx context.Context, rec FileRecord) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	isPublic := 0
	if rec.IsPublic {
		isPublic = 1
	}

	_, err := ix.db.ExecContext(ctx, `
		INSERT INTO drive_files (id, name, size, mime_type, owner_id, access_level, tags, is_public, uploaded_at, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			size = excluded.size,
			mime_type = excluded.mime_type,
			owner_id = excluded.owner_id,
			access_level = excluded.access_level,
			tags = excluded.tags,
			is_public = excluded.is_public,
			synced_at = datetime('now')
	`, rec.ID, rec.Name, rec.Size, rec.MimeType, rec.OwnerID, rec.AccessLevel,
		strings.Join(rec.Tags, ","), isPublic, rec.UploadedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert file %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteFile removes one file record.
func (ix *Index) DeleteFile(ctx context.Context, id string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, err := ix.db.ExecContext(ctx, `DELETE FROM drive_files WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete file %s: %w", id, err)
	}
	return nil
}

// ListIDs returns every indexed file id.
func (ix *Index) ListIDs(ctx context.Context) ([]string, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	rows, err := ix.db.QueryContext(ctx, `SELECT id FROM drive_files`)
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountFiles returns the number of indexed files.
func (ix *Index) CountFiles(ctx context.Context) (int, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var n int
	if err := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drive_files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return n, nil
}

// RecordSyncRun stores an observational record of one sync pass.
func (ix *Index) RecordSyncRun(ctx context.Context, recordsUpdated, errorCount int) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	_, err := ix.db.ExecContext(ctx, `
		INSERT INTO sync_runs (records_updated, error_count) VALUES (?, ?)
	`, recordsUpdated, errorCount)
	if err != nil {
		return fmt.Errorf("record sync run: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (ix *Index) Close() error {
	return ix.db.Close()
}
