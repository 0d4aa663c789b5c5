// Metadata synchronization coordination.
//
// INVARIANTS:
// - Success is true iff no per-record error occurred
// - No retries: the caller decides whether to re-run a partial sync
package oracle

import (
	"context"
	"fmt"

	"github.com/oracledrive/oracledrive/internal/logging"
	"github.com/oracledrive/oracledrive/internal/model"
)

// SyncCoordinator drives metadata reconciliation on demand.
type SyncCoordinator struct {
	oracle Oracle
}

// NewSyncCoordinator creates a coordinator over the oracle.
func NewSyncCoordinator(o Oracle) (*SyncCoordinator, error) {
	if o == nil {
		return nil, fmt.Errorf("oracle is required")
	}
	return &SyncCoordinator{oracle: o}, nil
}

// SyncWithOracle runs one reconciliation pass and reports the
// partial-success outcome.
func (c *SyncCoordinator) SyncWithOracle(ctx context.Context) (model.OracleSyncResult, error) {
	result, err := c.oracle.SyncDatabaseMetadata(ctx)
	if err != nil {
		return model.OracleSyncResult{}, fmt.Errorf("sync database metadata: %w", err)
	}

	log := logging.FromContext(ctx)
	if result.Success {
		log.Info("oracle sync completed", "records_updated", result.RecordsUpdated)
	} else {
		log.Warn("oracle sync partially failed",
			"records_updated", result.RecordsUpdated,
			"errors", len(result.Errors))
	}

	return result, nil
}
