// Agent connection coordination.
//
// INVARIANTS:
// - Agents connect strictly in ConnectOrder: genesis, aura, kai
// - The first failure short-circuits; later agents are never contacted
// - No retries; the caller decides whether to re-run the sequence
package agent

import (
	"context"
	"fmt"

	"github.com/oracledrive/oracledrive/internal/logging"
)

// ConnectionCoordinator runs the fixed-order agent connection protocol.
type ConnectionCoordinator struct {
	registry *Registry
}

// NewConnectionCoordinator creates a coordinator over a complete
// registry. An incomplete registry is a construction error.
func NewConnectionCoordinator(registry *Registry) (*ConnectionCoordinator, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if !registry.Complete() {
		return nil, fmt.Errorf("%w: all of %v must be filled", ErrRoleMissing, ConnectOrder)
	}
	return &ConnectionCoordinator{registry: registry}, nil
}

// ConnectAgents connects all three agents in order. Each connect is
// attempted only if every earlier one succeeded; the returned
// ConnectionError identifies the first agent that failed.
func (c *ConnectionCoordinator) ConnectAgents(ctx context.Context) error {
	log := logging.FromContext(ctx)

	for _, role := range ConnectOrder {
		a, ok := c.registry.Get(role)
		if !ok {
			return &ConnectionError{Role: role, Reason: ErrRoleMissing}
		}

		if err := a.Connect(ctx); err != nil {
			log.Warn("agent connection failed", "role", string(role), "error", err)
			return &ConnectionError{Role: role, Reason: err}
		}
		log.Debug("agent connected", "role", string(role))
	}

	return nil
}
