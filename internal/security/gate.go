// The security gate centralizes every allow/deny decision.
//
// INVARIANTS:
// - Fail-closed: a missing, unknown, or errored verdict is a denial
// - Dual consensus always queries BOTH validators and ANDs the verdicts
// - The gate holds no state; concurrent use on unrelated files is safe
package security

import (
	"context"
	"fmt"

	"github.com/oracledrive/oracledrive/internal/agent"
	"github.com/oracledrive/oracledrive/internal/logging"
	"github.com/oracledrive/oracledrive/internal/model"
)

// Validator is the slice of the agent contract the gate consumes.
type Validator interface {
	Role() agent.Role
	ValidateSecurityState(ctx context.Context) (model.SecurityValidationResult, error)
}

// Gate evaluates security verdicts for initialization and file
// operations. It is a pure function of its collaborators' answers.
type Gate struct {
	keeper Keeper
	first  Validator
	second Validator
}

// NewGate builds a gate over the keeper and the two independent
// validator agents required for dual consensus.
func NewGate(keeper Keeper, first, second Validator) (*Gate, error) {
	if keeper == nil {
		return nil, fmt.Errorf("keeper is required")
	}
	if first == nil || second == nil {
		return nil, fmt.Errorf("two validators are required")
	}
	return &Gate{keeper: keeper, first: first, second: second}, nil
}

// CheckDriveAccess is the single-party gate used by initialization.
// The keeper's verdict passes through unchanged.
func (g *Gate) CheckDriveAccess(ctx context.Context) (model.SecurityCheck, error) {
	return g.keeper.ValidateDriveAccess(ctx)
}

// CheckConsensus is the dual-party gate used before upload and delete.
// Both validators are always queried, so a denial still records the
// second verdict for the audit trail; the combined answer is the
// logical AND. A nil error with a deny verdict means the gate worked
// and said no.
func (g *Gate) CheckConsensus(ctx context.Context) (bool, error) {
	log := logging.FromContext(ctx)

	firstOK := g.queryValidator(ctx, g.first)
	secondOK := g.queryValidator(ctx, g.second)

	if !firstOK || !secondOK {
		log.Warn("security consensus denied",
			string(g.first.Role()), firstOK,
			string(g.second.Role()), secondOK)
		return false, nil
	}
	return true, nil
}

// queryValidator converts one validator's answer into a boolean
// verdict, mapping errors and unknown results to deny.
func (g *Gate) queryValidator(ctx context.Context, v Validator) bool {
	result, err := v.ValidateSecurityState(ctx)
	if err != nil {
		return false
	}
	return result == model.SecurityValidationSuccess
}

// CheckFileUpload runs the keeper's per-file inspection. A reported
// threat denies the upload.
func (g *Gate) CheckFileUpload(ctx context.Context, file model.DriveFile) (model.SecurityValidation, error) {
	return g.keeper.ValidateFileUpload(ctx, file)
}
