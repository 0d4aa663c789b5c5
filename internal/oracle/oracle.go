package oracle

import (
	"context"
	"fmt"

	"github.com/oracledrive/oracledrive/internal/agent"
	"github.com/oracledrive/oracledrive/internal/logging"
	"github.com/oracledrive/oracledrive/internal/model"
	"github.com/oracledrive/oracledrive/internal/vault"
)

// Oracle is the remote API collaborator: consciousness awakening and
// metadata synchronization.
type Oracle interface {
	// AwakenDriveConsciousness produces the activation snapshot.
	AwakenDriveConsciousness(ctx context.Context) (model.DriveConsciousness, error)

	// SyncDatabaseMetadata reconciles local state against the
	// metadata index and reports per-record errors.
	SyncDatabaseMetadata(ctx context.Context) (model.OracleSyncResult, error)
}

// intelligence scoring: a dormant drive starts at baseIntelligence;
// each connected agent raises it by perAgentIntelligence.
const (
	baseIntelligence     = 40
	perAgentIntelligence = 15
)

// MetadataOracle implements Oracle over the encrypted index, the
// vault and the agent registry.
type MetadataOracle struct {
	index    *Index
	store    *vault.Store
	registry *agent.Registry
}

// NewMetadataOracle wires the oracle. All collaborators are required.
func NewMetadataOracle(index *Index, store *vault.Store, registry *agent.Registry) (*MetadataOracle, error) {
	if index == nil {
		return nil, fmt.Errorf("index is required")
	}
	if store == nil {
		return nil, fmt.Errorf("vault store is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("agent registry is required")
	}
	return &MetadataOracle{index: index, store: store, registry: registry}, nil
}

// AwakenDriveConsciousness reports the drive awake with an
// intelligence level derived from the registered agents.
func (o *MetadataOracle) AwakenDriveConsciousness(ctx context.Context) (model.DriveConsciousness, error) {
	agents := o.registry.Roles()

	level := baseIntelligence + perAgentIntelligence*len(agents)
	if level > 100 {
		level = 100
	}

	return model.DriveConsciousness{
		IsAwake:           true,
		IntelligenceLevel: level,
		ActiveAgents:      agents,
	}, nil
}

// SyncDatabaseMetadata pushes every vault record into the index and
// prunes index rows whose files are gone. Failures are collected per
// record; the pass keeps going past individual errors.
func (o *MetadataOracle) SyncDatabaseMetadata(ctx context.Context) (model.OracleSyncResult, error) {
	log := logging.FromContext(ctx)

	details, err := o.store.ListDetails(ctx)
	if err != nil {
		return model.OracleSyncResult{}, fmt.Errorf("list vault files: %w", err)
	}

	var updated int
	var errs []string

	present := make(map[string]bool, len(details))
	for _, d := range details {
		present[d.Info.ID] = true

		rec := FileRecord{
			ID:          d.Info.ID,
			Name:        d.Info.Name,
			Size:        d.Size,
			MimeType:    d.MimeType,
			OwnerID:     d.Metadata.OwnerID,
			AccessLevel: string(d.Metadata.AccessLevel),
			Tags:        d.Metadata.Tags,
			IsPublic:    d.Metadata.IsPublic,
			UploadedAt:  d.Info.Timestamp,
		}
		if err := o.index.UpsertFile(ctx, rec); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		updated++
	}

	// Prune index rows whose backing file is gone.
	ids, err := o.index.ListIDs(ctx)
	if err != nil {
		errs = append(errs, err.Error())
	} else {
		for _, id := range ids {
			if present[id] {
				continue
			}
			if err := o.index.DeleteFile(ctx, id); err != nil {
				errs = append(errs, err.Error())
				continue
			}
			updated++
		}
	}

	if err := o.index.RecordSyncRun(ctx, updated, len(errs)); err != nil {
		log.Warn("failed to record sync run", "error", err)
	}

	return model.OracleSyncResult{
		Success:        len(errs) == 0,
		RecordsUpdated: updated,
		Errors:         errs,
	}, nil
}

var _ Oracle = (*MetadataOracle)(nil)
