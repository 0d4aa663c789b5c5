package oracle

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oracledrive/oracledrive/internal/agent"
	"github.com/oracledrive/oracledrive/internal/model"
	"github.com/oracledrive/oracledrive/internal/vault"
)

func setupIndex(t *testing.T, passphrase string) *Index {
	t.Helper()

	index, err := OpenIndex(filepath.Join(t.TempDir(), "oracle.db"), passphrase)
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	require.NoError(t, index.Initialize(context.Background()))
	return index
}

func setupOracle(t *testing.T) (*MetadataOracle, *Index, *vault.Store) {
	t.Helper()

	index := setupIndex(t, "")

	store, err := vault.NewStore(t.TempDir(), 3)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	registry := agent.NewRegistry()
	for _, role := range agent.ConnectOrder {
		a, err := agent.NewVaultAgent(role, store, nil)
		require.NoError(t, err)
		require.NoError(t, registry.Register(a))
	}

	o, err := NewMetadataOracle(index, store, registry)
	require.NoError(t, err)
	return o, index, store
}

func storeVaultFile(t *testing.T, store *vault.Store, id, name string) {
	t.Helper()

	stored := model.StoredFile{
		ID:               id,
		Name:             name,
		EncryptedContent: []byte("sealed:" + name),
		Timestamp:        time.Now().UTC(),
	}
	record := vault.UploadRecord{
		OriginalSize: 10,
		MimeType:     "text/plain",
		ContentHash:  vault.HashContent([]byte(name)),
		Metadata:     model.FileMetadata{OwnerID: "tester", AccessLevel: model.AccessLevelPrivate},
	}
	require.NoError(t, store.UploadFile(context.Background(), stored, record))
}

func TestIndex_UpsertListCount(t *testing.T) {
	index := setupIndex(t, "")
	ctx := context.Background()

	rec := FileRecord{
		ID:          "file-1",
		Name:        "a.txt",
		Size:        10,
		MimeType:    "text/plain",
		OwnerID:     "tester",
		AccessLevel: "private",
		Tags:        []string{"notes", "work"},
		UploadedAt:  time.Now().UTC(),
	}
	require.NoError(t, index.UpsertFile(ctx, rec))

	// Upsert with the same id refreshes rather than duplicating.
	rec.Name = "renamed.txt"
	require.NoError(t, index.UpsertFile(ctx, rec))

	ids, err := index.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"file-1"}, ids)

	n, err := index.CountFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIndex_EncryptedReopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "oracle.db")
	ctx := context.Background()

	index, err := OpenIndex(dbPath, "correct-horse")
	require.NoError(t, err)
	require.NoError(t, index.Initialize(ctx))
	require.NoError(t, index.UpsertFile(ctx, FileRecord{ID: "file-1", Name: "a.txt", OwnerID: "t", AccessLevel: "private", UploadedAt: time.Now()}))
	require.NoError(t, index.Close())

	reopened, err := OpenIndex(dbPath, "correct-horse")
	require.NoError(t, err)
	defer reopened.Close()

	n, err := reopened.CountFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIndex_WrongPassphraseFails(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "oracle.db")

	index, err := OpenIndex(dbPath, "correct-horse")
	require.NoError(t, err)
	require.NoError(t, index.Initialize(context.Background()))
	require.NoError(t, index.Close())

	_, err = OpenIndex(dbPath, "battery-staple")
	assert.Error(t, err)
}

func TestAwakenDriveConsciousness(t *testing.T) {
	o, _, _ := setupOracle(t)

	consciousness, err := o.AwakenDriveConsciousness(context.Background())
	require.NoError(t, err)

	assert.True(t, consciousness.IsAwake)
	assert.Equal(t, 85, consciousness.IntelligenceLevel)
	assert.Equal(t, []string{"genesis", "aura", "kai"}, consciousness.ActiveAgents)
}

func TestSyncDatabaseMetadata_PushesVaultRecords(t *testing.T) {
	o, index, store := setupOracle(t)
	ctx := context.Background()

	storeVaultFile(t, store, "file-1", "a.txt")
	storeVaultFile(t, store, "file-2", "b.txt")

	result, err := o.SyncDatabaseMetadata(ctx)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.RecordsUpdated)
	assert.Empty(t, result.Errors)

	n, err := index.CountFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSyncDatabaseMetadata_PrunesDeletedFiles(t *testing.T) {
	o, index, store := setupOracle(t)
	ctx := context.Background()

	storeVaultFile(t, store, "file-1", "a.txt")
	require.NoError(t, index.UpsertFile(ctx, FileRecord{
		ID: "ghost", Name: "gone.txt", OwnerID: "t", AccessLevel: "private", UploadedAt: time.Now(),
	}))

	result, err := o.SyncDatabaseMetadata(ctx)
	require.NoError(t, err)

	// One upsert plus one prune.
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.RecordsUpdated)

	ids, err := index.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"file-1"}, ids)
}
