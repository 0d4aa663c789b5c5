package agent

import (
	"fmt"
	"sync"
)

// Registry holds the agent filling each fixed role.
type Registry struct {
	agents map[Role]Agent
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[Role]Agent),
	}
}

// Register installs an agent for its role. Each role holds at most
// one agent.
func (r *Registry) Register(a Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	role := a.Role()
	if _, exists := r.agents[role]; exists {
		return fmt.Errorf("%w: %s", ErrRoleTaken, role)
	}

	r.agents[role] = a
	return nil
}

// Get returns the agent for a role.
func (r *Registry) Get(role Role) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[role]
	return a, ok
}

// All returns the registered agents in connection order.
func (r *Registry) All() []Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Agent, 0, len(r.agents))
	for _, role := range ConnectOrder {
		if a, ok := r.agents[role]; ok {
			result = append(result, a)
		}
	}
	return result
}

// Roles returns the roles currently filled, in connection order.
func (r *Registry) Roles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]string, 0, len(r.agents))
	for _, role := range ConnectOrder {
		if _, ok := r.agents[role]; ok {
			roles = append(roles, string(role))
		}
	}
	return roles
}

// Complete reports whether every fixed role is filled.
func (r *Registry) Complete() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, role := range ConnectOrder {
		if _, ok := r.agents[role]; !ok {
			return false
		}
	}
	return true
}
