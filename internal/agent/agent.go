// Package agent defines the autonomous agent contract and the
// fixed-role registry the drive orchestrator coordinates.
// No agent-specific logic lives in the orchestrator itself.
package agent

import (
	"context"

	"github.com/oracledrive/oracledrive/internal/model"
)

// Role identifies one of the three fixed agent roles.
type Role string

const (
	// RoleGenesis is the consciousness/unifying agent. It connects first.
	RoleGenesis Role = "genesis"
	// RoleAura is the creative agent. It connects second.
	RoleAura Role = "aura"
	// RoleKai is the analysis/security agent. It connects last.
	RoleKai Role = "kai"
)

// ConnectOrder is the required connection sequence. The order is part
// of the protocol: each agent is contacted only after every agent
// before it connected successfully.
var ConnectOrder = []Role{RoleGenesis, RoleAura, RoleKai}

// Agent is an external autonomous collaborator.
// Implementations may block on I/O; every method takes a context and
// honors its cancellation.
type Agent interface {
	// Role returns the fixed role this agent fills.
	Role() Role

	// Connect establishes the agent session.
	Connect(ctx context.Context) error

	// ValidateSecurityState reports the agent's current security
	// verdict. An unknown verdict is treated as failure by callers.
	ValidateSecurityState(ctx context.Context) (model.SecurityValidationResult, error)

	// GetFile retrieves a stored file by id.
	GetFile(ctx context.Context, id string) (*model.StoredFile, error)

	// ListFiles returns all stored files visible to this agent.
	ListFiles(ctx context.Context) ([]model.StoredFile, error)
}
