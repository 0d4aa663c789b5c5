// Engine wiring: constructs the orchestrator stack from configuration
// and backs each CLI command.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/oracledrive/oracledrive/internal/agent"
	"github.com/oracledrive/oracledrive/internal/config"
	"github.com/oracledrive/oracledrive/internal/drive"
	"github.com/oracledrive/oracledrive/internal/logging"
	"github.com/oracledrive/oracledrive/internal/model"
	"github.com/oracledrive/oracledrive/internal/oracle"
	"github.com/oracledrive/oracledrive/internal/security"
	"github.com/oracledrive/oracledrive/internal/vault"
)

// Engine holds the wired orchestrator stack for one command run.
type Engine struct {
	cfg        *config.Config
	store      *vault.Store
	index      *oracle.Index
	state      *drive.StateStore
	controller *drive.InitializationController
	pipeline   *drive.Pipeline
	syncer     *oracle.SyncCoordinator
}

// newEngine builds the full stack: keeper, vault, agents, gate,
// oracle and the drive controllers.
func newEngine() (*Engine, error) {
	cfg := config.Load()
	if dataDir != "" {
		cfg.DataDir = dataDir
		cfg.OracleDBPath = filepath.Join(dataDir, "oracle.db")
	}
	if cfg.Passphrase == "" {
		return nil, fmt.Errorf("ORACLE_DRIVE_PASSPHRASE is not set")
	}

	keeper, err := security.NewVaultKeeper(cfg.Passphrase, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("create keeper: %w", err)
	}

	store, err := vault.NewStore(cfg.DataDir, cfg.CompressionLevel)
	if err != nil {
		return nil, fmt.Errorf("create vault: %w", err)
	}

	registry := agent.NewRegistry()
	var kai, genesis *agent.VaultAgent
	for _, role := range agent.ConnectOrder {
		a, err := agent.NewVaultAgent(role, store, nil)
		if err != nil {
			return nil, fmt.Errorf("create %s agent: %w", role, err)
		}
		if err := registry.Register(a); err != nil {
			return nil, fmt.Errorf("register %s agent: %w", role, err)
		}
		switch role {
		case agent.RoleKai:
			kai = a
		case agent.RoleGenesis:
			genesis = a
		}
	}

	coordinator, err := agent.NewConnectionCoordinator(registry)
	if err != nil {
		return nil, fmt.Errorf("create connection coordinator: %w", err)
	}

	// Dual consensus: the security agent plus the unifying agent.
	gate, err := security.NewGate(keeper, kai, genesis)
	if err != nil {
		return nil, fmt.Errorf("create security gate: %w", err)
	}

	index, err := oracle.OpenIndex(cfg.OracleDBPath, cfg.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("open oracle index: %w", err)
	}
	if err := index.Initialize(context.Background()); err != nil {
		index.Close()
		return nil, fmt.Errorf("initialize oracle index: %w", err)
	}

	metaOracle, err := oracle.NewMetadataOracle(index, store, registry)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("create oracle: %w", err)
	}

	state := drive.NewStateStore()
	controller, err := drive.NewInitializationController(gate, coordinator, metaOracle, store, state, cfg.StorageCapacity)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("create initialization controller: %w", err)
	}

	pipeline, err := drive.NewPipeline(gate, keeper, store, genesis, state)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	syncer, err := oracle.NewSyncCoordinator(metaOracle)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("create sync coordinator: %w", err)
	}

	return &Engine{
		cfg:        cfg,
		store:      store,
		index:      index,
		state:      state,
		controller: controller,
		pipeline:   pipeline,
		syncer:     syncer,
	}, nil
}

// Close releases the engine's resources.
func (e *Engine) Close() {
	e.index.Close()
	e.store.Close()
}

// commandContext builds the context for one command: logger attached,
// deadline applied when --timeout is set.
func commandContext() (context.Context, context.CancelFunc) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := logging.AddToContext(context.Background(), logger)
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}

// startSpinner starts a progress spinner unless quiet or verbose
// output is active.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	if !quiet && !verbose {
		s.Start()
	}
	return s, func() {
		s.Stop()
		if s.FinalMSG != "" {
			fmt.Println(s.FinalMSG)
		}
	}
}

// initializeDrive runs one initialization cycle and reports the
// outcome; file commands call it before touching the pipeline.
func initializeDrive(ctx context.Context, e *Engine) error {
	result, err := e.controller.InitializeDrive(ctx)
	if err != nil {
		return err
	}

	switch r := result.(type) {
	case model.InitSuccess:
		return nil
	case model.InitSecurityFailure:
		return fmt.Errorf("%w: %s", security.ErrAccessDenied, r.Reason)
	default:
		return fmt.Errorf("unexpected initialization result %T", result)
	}
}

// RunInit initializes the drive and prints the activation snapshot.
func RunInit() error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext()
	defer cancel()

	sp, cleanup := startSpinner("Awakening drive consciousness...")
	defer cleanup()

	result, err := e.controller.InitializeDrive(ctx)
	if err != nil {
		sp.FinalMSG = color.RedString("✗") + " Initialization failed: " + err.Error()
		return err
	}

	switch r := result.(type) {
	case model.InitSuccess:
		sp.FinalMSG = color.GreenString("✓") + " Drive active\n" +
			fmt.Sprintf("  intelligence level : %d\n", r.Consciousness.IntelligenceLevel) +
			fmt.Sprintf("  active agents      : %v\n", r.Consciousness.ActiveAgents) +
			fmt.Sprintf("  compression ratio  : %.2f\n", r.Optimization.CompressionRatio) +
			fmt.Sprintf("  dedup savings      : %d bytes", r.Optimization.DeduplicationSavings)
	case model.InitSecurityFailure:
		sp.FinalMSG = color.RedString("✗") + " Access denied: " + r.Reason
	}
	return nil
}

// RunStatus initializes quietly and prints the state-store snapshot.
func RunStatus() error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext()
	defer cancel()

	if err := initializeDrive(ctx, e); err != nil {
		return err
	}

	state := e.state.Get()
	fmt.Printf("awake            : %v\n", state.IsAwake)
	fmt.Printf("level            : %s\n", state.Level)
	fmt.Printf("connected agents : %v\n", state.ConnectedAgents)
	fmt.Printf("capacity         : %d bytes\n", state.StorageCapacity)
	return nil
}

// RunUpload encrypts and stores one file from the local filesystem.
func RunUpload(path string, tags []string, public bool) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext()
	defer cancel()

	if err := initializeDrive(ctx, e); err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	file := model.DriveFile{
		Name:     name,
		Content:  content,
		Size:     int64(len(content)),
		MimeType: mime.TypeByExtension(filepath.Ext(name)),
	}
	access := model.AccessLevelPrivate
	if public {
		access = model.AccessLevelPublic
	}
	meta := model.FileMetadata{
		OwnerID:     e.cfg.OwnerID,
		Tags:        tags,
		IsPublic:    public,
		AccessLevel: access,
	}

	sp, cleanup := startSpinner("Uploading " + name + "...")
	defer cleanup()

	result := e.pipeline.ManageFiles(ctx, model.UploadOp{File: file, Metadata: meta})
	switch r := result.(type) {
	case model.FileSuccess:
		sp.FinalMSG = color.GreenString("✓") + " " + r.Message
	case model.FileFailure:
		sp.FinalMSG = color.RedString("✗") + " " + r.Reason
		return fmt.Errorf("%s", r.Reason)
	}
	return nil
}

// RunGet retrieves a stored file and writes the plaintext to dest
// (default: the stored name in the working directory).
func RunGet(id, dest string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext()
	defer cancel()

	if err := initializeDrive(ctx, e); err != nil {
		return err
	}

	file, err := e.pipeline.Download(ctx, id)
	if err != nil {
		return err
	}

	if dest == "" {
		dest = file.Name
	}
	if err := os.WriteFile(dest, file.Content, 0600); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	if !quiet {
		fmt.Printf("%s %s -> %s (%d bytes)\n", color.GreenString("✓"), id, dest, file.Size)
	}
	return nil
}

// RunLs prints the metadata-only listing.
func RunLs() error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext()
	defer cancel()

	if err := initializeDrive(ctx, e); err != nil {
		return err
	}

	infos, err := e.pipeline.List(ctx)
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		fmt.Println("no files stored")
		return nil
	}
	for _, info := range infos {
		fmt.Printf("%-36s  %-30s  %s\n", info.ID, info.Name, info.Timestamp.Format(time.RFC3339))
	}
	return nil
}

// RunRm deletes one stored file behind the consensus gate.
func RunRm(id string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext()
	defer cancel()

	if err := initializeDrive(ctx, e); err != nil {
		return err
	}

	result := e.pipeline.ManageFiles(ctx, model.DeleteOp{ID: id})
	switch r := result.(type) {
	case model.FileSuccess:
		if !quiet {
			fmt.Println(color.GreenString("✓") + " " + r.Message)
		}
	case model.FileFailure:
		return fmt.Errorf("%s", r.Reason)
	}
	return nil
}

// RunSync reconciles the vault against the oracle metadata index.
func RunSync() error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext()
	defer cancel()

	sp, cleanup := startSpinner("Syncing with oracle...")
	defer cleanup()

	result, err := e.syncer.SyncWithOracle(ctx)
	if err != nil {
		sp.FinalMSG = color.RedString("✗") + " Sync failed: " + err.Error()
		return err
	}

	if result.Success {
		sp.FinalMSG = color.GreenString("✓") + fmt.Sprintf(" Synced %d records", result.RecordsUpdated)
	} else {
		sp.FinalMSG = color.YellowString("!") + fmt.Sprintf(" Synced %d records with %d errors", result.RecordsUpdated, len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Fprintln(os.Stderr, "  error: "+msg)
		}
	}
	return nil
}
