package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oracledrive/oracledrive/internal/model"
)

// fakeAgent counts calls and fails on demand.
type fakeAgent struct {
	role         Role
	connectErr   error
	connectCalls int
	verdict      model.SecurityValidationResult
	verdictErr   error
	verdictCalls int
	files        map[string]model.StoredFile
}

func newFakeAgent(role Role) *fakeAgent {
	return &fakeAgent{
		role:    role,
		verdict: model.SecurityValidationSuccess,
		files:   make(map[string]model.StoredFile),
	}
}

func (f *fakeAgent) Role() Role { return f.role }

func (f *fakeAgent) Connect(ctx context.Context) error {
	f.connectCalls++
	return f.connectErr
}

func (f *fakeAgent) ValidateSecurityState(ctx context.Context) (model.SecurityValidationResult, error) {
	f.verdictCalls++
	return f.verdict, f.verdictErr
}

func (f *fakeAgent) GetFile(ctx context.Context, id string) (*model.StoredFile, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &file, nil
}

func (f *fakeAgent) ListFiles(ctx context.Context) ([]model.StoredFile, error) {
	files := make([]model.StoredFile, 0, len(f.files))
	for _, file := range f.files {
		files = append(files, file)
	}
	return files, nil
}

func setupAgents(t *testing.T) (*Registry, *fakeAgent, *fakeAgent, *fakeAgent) {
	t.Helper()

	registry := NewRegistry()
	genesis := newFakeAgent(RoleGenesis)
	aura := newFakeAgent(RoleAura)
	kai := newFakeAgent(RoleKai)

	require.NoError(t, registry.Register(genesis))
	require.NoError(t, registry.Register(aura))
	require.NoError(t, registry.Register(kai))

	return registry, genesis, aura, kai
}

func TestConnectAgents_AllSucceed(t *testing.T) {
	registry, genesis, aura, kai := setupAgents(t)

	coordinator, err := NewConnectionCoordinator(registry)
	require.NoError(t, err)

	err = coordinator.ConnectAgents(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, genesis.connectCalls)
	assert.Equal(t, 1, aura.connectCalls)
	assert.Equal(t, 1, kai.connectCalls)
}

func TestConnectAgents_FailFast(t *testing.T) {
	registry, genesis, aura, kai := setupAgents(t)
	aura.connectErr = errors.New("aura unreachable")

	coordinator, err := NewConnectionCoordinator(registry)
	require.NoError(t, err)

	err = coordinator.ConnectAgents(context.Background())
	require.Error(t, err)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, RoleAura, connErr.Role)
	assert.Contains(t, connErr.Error(), "aura unreachable")

	// Genesis connected, aura failed, kai was never contacted.
	assert.Equal(t, 1, genesis.connectCalls)
	assert.Equal(t, 1, aura.connectCalls)
	assert.Equal(t, 0, kai.connectCalls)
}

func TestConnectAgents_FirstFailureSkipsRest(t *testing.T) {
	registry, genesis, aura, kai := setupAgents(t)
	genesis.connectErr = errors.New("genesis offline")

	coordinator, err := NewConnectionCoordinator(registry)
	require.NoError(t, err)

	err = coordinator.ConnectAgents(context.Background())
	require.Error(t, err)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, RoleGenesis, connErr.Role)
	assert.Equal(t, 0, aura.connectCalls)
	assert.Equal(t, 0, kai.connectCalls)
}

func TestNewConnectionCoordinator_IncompleteRegistry(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeAgent(RoleGenesis)))

	_, err := NewConnectionCoordinator(registry)
	assert.ErrorIs(t, err, ErrRoleMissing)
}

func TestRegistry_RoleTaken(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeAgent(RoleGenesis)))

	err := registry.Register(newFakeAgent(RoleGenesis))
	assert.ErrorIs(t, err, ErrRoleTaken)
}

func TestRegistry_RolesInConnectOrder(t *testing.T) {
	registry := NewRegistry()
	// Register out of order; Roles still reports connect order.
	require.NoError(t, registry.Register(newFakeAgent(RoleKai)))
	require.NoError(t, registry.Register(newFakeAgent(RoleGenesis)))
	require.NoError(t, registry.Register(newFakeAgent(RoleAura)))

	assert.Equal(t, []string{"genesis", "aura", "kai"}, registry.Roles())
	assert.True(t, registry.Complete())
}
