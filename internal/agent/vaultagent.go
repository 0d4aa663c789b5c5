// Vault-backed agent: a concrete Agent serving file access from the
// local vault. Production deployments swap in live remote agents; the
// local variant keeps the full pipeline usable on a single machine.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/oracledrive/oracledrive/internal/model"
	"github.com/oracledrive/oracledrive/internal/vault"
)

// VerdictFunc supplies an agent's security verdict.
type VerdictFunc func(ctx context.Context) (model.SecurityValidationResult, error)

// VaultAgent serves GetFile/ListFiles from a vault store.
type VaultAgent struct {
	role      Role
	store     *vault.Store
	verdict   VerdictFunc
	connected atomic.Bool
}

// NewVaultAgent creates an agent for role over store. verdict may be
// nil, in which case the agent reports success while the vault is
// reachable.
func NewVaultAgent(role Role, store *vault.Store, verdict VerdictFunc) (*VaultAgent, error) {
	if store == nil {
		return nil, fmt.Errorf("vault store is required")
	}
	a := &VaultAgent{role: role, store: store, verdict: verdict}
	if a.verdict == nil {
		a.verdict = a.defaultVerdict
	}
	return a, nil
}

func (a *VaultAgent) Role() Role { return a.role }

// Connect marks the session established. The vault is probed so a
// missing data directory fails the connection rather than the first
// file operation.
func (a *VaultAgent) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := a.store.ListInfo(ctx); err != nil {
		return fmt.Errorf("probe vault: %w", err)
	}
	a.connected.Store(true)
	return nil
}

func (a *VaultAgent) ValidateSecurityState(ctx context.Context) (model.SecurityValidationResult, error) {
	return a.verdict(ctx)
}

func (a *VaultAgent) defaultVerdict(ctx context.Context) (model.SecurityValidationResult, error) {
	if !a.connected.Load() {
		return model.SecurityValidationFailure, nil
	}
	if _, err := a.store.ListInfo(ctx); err != nil {
		return model.SecurityValidationFailure, nil
	}
	return model.SecurityValidationSuccess, nil
}

func (a *VaultAgent) GetFile(ctx context.Context, id string) (*model.StoredFile, error) {
	f, err := a.store.GetFile(ctx, id)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return f, nil
}

func (a *VaultAgent) ListFiles(ctx context.Context) ([]model.StoredFile, error) {
	return a.store.ListFiles(ctx)
}

var _ Agent = (*VaultAgent)(nil)
