package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oracledrive/oracledrive/internal/model"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir(), 3)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func storeFile(t *testing.T, store *Store, id, name string, content []byte) {
	t.Helper()

	stored := model.StoredFile{
		ID:               id,
		Name:             name,
		EncryptedContent: append([]byte("sealed:"), content...),
		Timestamp:        time.Now().UTC(),
	}
	record := UploadRecord{
		OriginalSize:  int64(len(content)),
		OptimizedSize: int64(len(content) / 2),
		MimeType:      "text/plain",
		ContentHash:   HashContent(content),
		Metadata: model.FileMetadata{
			OwnerID:     "tester",
			AccessLevel: model.AccessLevelPrivate,
		},
	}
	require.NoError(t, store.UploadFile(context.Background(), stored, record))
}

func TestStore_UploadAndGet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	storeFile(t, store, "file-1", "notes.txt", []byte("hello"))

	got, err := store.GetFile(ctx, "file-1")
	require.NoError(t, err)
	assert.Equal(t, "file-1", got.ID)
	assert.Equal(t, "notes.txt", got.Name)
	assert.Equal(t, []byte("sealed:hello"), got.EncryptedContent)
	assert.False(t, got.Timestamp.IsZero())
}

func TestStore_GetMissing(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetFile(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DuplicateUploadRejected(t *testing.T) {
	store := setupStore(t)

	storeFile(t, store, "file-1", "notes.txt", []byte("hello"))

	err := store.UploadFile(context.Background(), model.StoredFile{
		ID:               "file-1",
		Name:             "other.txt",
		EncryptedContent: []byte("sealed:other"),
		Timestamp:        time.Now().UTC(),
	}, UploadRecord{})
	assert.ErrorIs(t, err, ErrExists)
}

func TestStore_OptimizeRestoreRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	original := model.DriveFile{
		Name:    "report.txt",
		Content: []byte("compress me, compress me, compress me"),
		Size:    37,
	}

	optimized, err := store.OptimizeForUpload(ctx, original)
	require.NoError(t, err)
	assert.Equal(t, []byte("compress me, compress me, compress me"), original.Content, "original must be untouched")

	restored, err := store.RestoreContent(ctx, optimized.Content)
	require.NoError(t, err)
	assert.Equal(t, original.Content, restored)
}

func TestStore_ListInfoIsMetadataOnly(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	storeFile(t, store, "file-1", "a.txt", []byte("alpha"))
	storeFile(t, store, "file-2", "b.txt", []byte("beta"))

	// Removing the content blobs must not affect the listing: the
	// projection reads metadata.json only.
	require.NoError(t, os.Remove(filepath.Join(store.fileDir("file-1"), contentFile)))
	require.NoError(t, os.Remove(filepath.Join(store.fileDir("file-2"), contentFile)))

	infos, err := store.ListInfo(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a.txt", infos[0].Name)
	assert.Equal(t, "b.txt", infos[1].Name)
}

func TestStore_Delete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	storeFile(t, store, "file-1", "a.txt", []byte("alpha"))

	require.NoError(t, store.DeleteFile(ctx, "file-1"))
	_, err := store.GetFile(ctx, "file-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.DeleteFile(ctx, "file-1"), ErrNotFound)
}

func TestStore_OptimizeStorageDeduplication(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	content := []byte("identical payload")
	storeFile(t, store, "file-1", "a.txt", content)
	storeFile(t, store, "file-2", "b.txt", content)
	storeFile(t, store, "file-3", "c.txt", []byte("different payload"))

	opt, err := store.OptimizeStorage(ctx)
	require.NoError(t, err)

	// file-2 duplicates file-1's plaintext.
	assert.Equal(t, int64(len(content)), opt.DeduplicationSavings)
	assert.True(t, opt.IntelligentTieringEnabled)
	assert.Greater(t, opt.CompressionRatio, 0.0)
	assert.LessOrEqual(t, opt.CompressionRatio, 1.0)
}

func TestStore_ListDetails(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	storeFile(t, store, "file-1", "a.txt", []byte("alpha"))

	details, err := store.ListDetails(ctx)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "file-1", details[0].Info.ID)
	assert.Equal(t, "tester", details[0].Metadata.OwnerID)
	assert.Equal(t, model.AccessLevelPrivate, details[0].Metadata.AccessLevel)
	assert.Equal(t, int64(5), details[0].Size)
}

func TestStore_Usage(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	storeFile(t, store, "file-1", "a.txt", []byte("alpha"))

	usage, err := store.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len("sealed:alpha")), usage)
}
