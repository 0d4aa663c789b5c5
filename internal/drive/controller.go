// Drive initialization: an activation state machine with one failure
// terminal.
//
//	Dormant -> (validate access) -> SecurityFailure        [terminal]
//	                             -> Awakening -> Optimizing -> Active
//
// INVARIANTS:
// - A denied access check means awakening and optimization never run
// - Concurrent initialization calls coalesce into one in-flight
//   sequence; late callers receive the shared result
// - Failure is terminal per call; retry is a fresh InitializeDrive
package drive

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/oracledrive/oracledrive/internal/logging"
	"github.com/oracledrive/oracledrive/internal/model"
)

// AccessValidator is the single-party security gate consumed at
// initialization.
type AccessValidator interface {
	CheckDriveAccess(ctx context.Context) (model.SecurityCheck, error)
}

// AgentConnector runs the fixed-order agent connection protocol.
type AgentConnector interface {
	ConnectAgents(ctx context.Context) error
}

// Awakener produces the consciousness snapshot.
type Awakener interface {
	AwakenDriveConsciousness(ctx context.Context) (model.DriveConsciousness, error)
}

// StorageOptimizer produces the storage optimization snapshot.
type StorageOptimizer interface {
	OptimizeStorage(ctx context.Context) (model.StorageOptimization, error)
}

// InitializationController sequences access validation, consciousness
// activation and storage optimization into one atomic outcome.
type InitializationController struct {
	gate      AccessValidator
	connector AgentConnector
	awakener  Awakener
	optimizer StorageOptimizer
	state     *StateStore
	capacity  int64

	group singleflight.Group
}

// NewInitializationController wires the controller. Every
// collaborator is required.
func NewInitializationController(
	gate AccessValidator,
	connector AgentConnector,
	awakener Awakener,
	optimizer StorageOptimizer,
	state *StateStore,
	capacity int64,
) (*InitializationController, error) {
	if gate == nil {
		return nil, fmt.Errorf("access validator is required")
	}
	if connector == nil {
		return nil, fmt.Errorf("agent connector is required")
	}
	if awakener == nil {
		return nil, fmt.Errorf("awakener is required")
	}
	if optimizer == nil {
		return nil, fmt.Errorf("storage optimizer is required")
	}
	if state == nil {
		return nil, fmt.Errorf("state store is required")
	}
	return &InitializationController{
		gate:      gate,
		connector: connector,
		awakener:  awakener,
		optimizer: optimizer,
		state:     state,
		capacity:  capacity,
	}, nil
}

// InitializeDrive runs one initialization cycle. Concurrent callers
// share a single in-flight sequence; collaborators are invoked once
// per cycle regardless of caller count.
func (c *InitializationController) InitializeDrive(ctx context.Context) (model.DriveInitResult, error) {
	v, err, _ := c.group.Do("initialize", func() (any, error) {
		return c.initialize(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(model.DriveInitResult), nil
}

func (c *InitializationController) initialize(ctx context.Context) (model.DriveInitResult, error) {
	log := logging.FromContext(ctx)

	// A new cycle starts a new session: the monotonic-level clamp
	// must not carry over from the previous activation.
	c.state.Reset()

	check, err := c.gate.CheckDriveAccess(ctx)
	if err != nil {
		return nil, fmt.Errorf("validate drive access: %w", err)
	}
	if !check.IsValid {
		log.Warn("drive initialization denied", "reason", check.Reason)
		return model.InitSecurityFailure{Reason: check.Reason}, nil
	}

	c.state.Publish(model.ConsciousnessState{
		IsAwake:         false,
		Level:           model.ConsciousnessAwakening,
		StorageCapacity: c.capacity,
	})

	if err := c.connector.ConnectAgents(ctx); err != nil {
		return nil, fmt.Errorf("connect agents: %w", err)
	}

	consciousness, err := c.awakener.AwakenDriveConsciousness(ctx)
	if err != nil {
		return nil, fmt.Errorf("awaken drive consciousness: %w", err)
	}

	c.state.Publish(model.ConsciousnessState{
		IsAwake:         consciousness.IsAwake,
		Level:           model.ConsciousnessAware,
		ConnectedAgents: consciousness.ActiveAgents,
		StorageCapacity: c.capacity,
	})

	optimization, err := c.optimizer.OptimizeStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("optimize storage: %w", err)
	}

	c.state.Publish(model.ConsciousnessState{
		IsAwake:         consciousness.IsAwake,
		Level:           model.ConsciousnessTranscendent,
		ConnectedAgents: consciousness.ActiveAgents,
		StorageCapacity: c.capacity,
	})

	log.Info("drive initialized",
		"intelligence_level", consciousness.IntelligenceLevel,
		"agents", len(consciousness.ActiveAgents),
		"compression_ratio", optimization.CompressionRatio)

	return model.InitSuccess{
		Consciousness: consciousness,
		Optimization:  optimization,
	}, nil
}
