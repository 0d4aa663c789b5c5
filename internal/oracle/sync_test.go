package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oracledrive/oracledrive/internal/model"
)

type fakeOracle struct {
	result model.OracleSyncResult
	err    error
	calls  int
}

func (f *fakeOracle) AwakenDriveConsciousness(ctx context.Context) (model.DriveConsciousness, error) {
	return model.DriveConsciousness{}, nil
}

func (f *fakeOracle) SyncDatabaseMetadata(ctx context.Context) (model.OracleSyncResult, error) {
	f.calls++
	return f.result, f.err
}

func TestSyncWithOracle_FullSuccess(t *testing.T) {
	o := &fakeOracle{result: model.OracleSyncResult{Success: true, RecordsUpdated: 150}}
	coordinator, err := NewSyncCoordinator(o)
	require.NoError(t, err)

	result, err := coordinator.SyncWithOracle(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 150, result.RecordsUpdated)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, o.calls)
}

func TestSyncWithOracle_PartialFailure(t *testing.T) {
	o := &fakeOracle{result: model.OracleSyncResult{
		Success:        false,
		RecordsUpdated: 3,
		Errors:         []string{"upsert file-4: disk full"},
	}}
	coordinator, err := NewSyncCoordinator(o)
	require.NoError(t, err)

	result, err := coordinator.SyncWithOracle(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.RecordsUpdated)
	assert.Len(t, result.Errors, 1)
}

func TestNewSyncCoordinator_RequiresOracle(t *testing.T) {
	_, err := NewSyncCoordinator(nil)
	assert.Error(t, err)
}
