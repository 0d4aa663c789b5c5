// Package model defines the core domain models for Oracle Drive.
// All types here are immutable value objects: transformations
// (optimization, encryption) produce copies, never in-place edits.
package model

import (
	"time"
)

// AccessLevel controls who may read a stored file.
type AccessLevel string

const (
	AccessLevelPrivate AccessLevel = "private"
	AccessLevelShared  AccessLevel = "shared"
	AccessLevelPublic  AccessLevel = "public"
)

// DriveFile is a plaintext file as seen by callers.
type DriveFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Content  []byte `json:"content"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

// WithContent returns a copy of the file carrying new content.
// Size tracks the new content length.
func (f DriveFile) WithContent(content []byte) DriveFile {
	c := make([]byte, len(content))
	copy(c, content)
	f.Content = c
	f.Size = int64(len(c))
	return f
}

// FileMetadata describes ownership and visibility of an uploaded file.
type FileMetadata struct {
	OwnerID     string      `json:"owner_id"`
	Tags        []string    `json:"tags,omitempty"`
	IsPublic    bool        `json:"is_public"`
	AccessLevel AccessLevel `json:"access_level"`
}

// StoredFile is a persisted file record.
// INVARIANT: EncryptedContent is never plaintext; it is only populated
// through the pipeline's encryption step.
type StoredFile struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	EncryptedContent []byte    `json:"encrypted_content"`
	Timestamp        time.Time `json:"timestamp"`
}

// FileInfo is the metadata-only projection used by list operations.
// Listing never touches encrypted content.
type FileInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// SecurityCheck is the verdict of the drive-access validation that
// gates initialization.
type SecurityCheck struct {
	IsValid bool   `json:"is_valid"`
	Reason  string `json:"reason,omitempty"`
}

// SecurityValidationResult is a per-agent security verdict.
// The zero value is deliberately NOT success: an absent or unknown
// verdict is treated as failure (fail-closed).
type SecurityValidationResult string

const (
	SecurityValidationUnknown SecurityValidationResult = ""
	SecurityValidationSuccess SecurityValidationResult = "success"
	SecurityValidationFailure SecurityValidationResult = "failure"
)

// ThreatSeverity grades a detected threat.
type ThreatSeverity string

const (
	ThreatSeverityLow      ThreatSeverity = "low"
	ThreatSeverityMedium   ThreatSeverity = "medium"
	ThreatSeverityHigh     ThreatSeverity = "high"
	ThreatSeverityCritical ThreatSeverity = "critical"
)

// SecurityThreat describes why a file was rejected.
type SecurityThreat struct {
	Type        string         `json:"type"`
	Severity    ThreatSeverity `json:"severity"`
	Description string         `json:"description,omitempty"`
}

// SecurityValidation is the storage-side per-file verdict.
type SecurityValidation struct {
	IsSecure bool            `json:"is_secure"`
	Threat   *SecurityThreat `json:"threat,omitempty"`
}

// DriveConsciousness is the activation snapshot produced when the
// drive is awakened.
type DriveConsciousness struct {
	IsAwake           bool     `json:"is_awake"`
	IntelligenceLevel int      `json:"intelligence_level"` // 0-100
	ActiveAgents      []string `json:"active_agents"`
}

// StorageOptimization reports the outcome of a storage optimization pass.
type StorageOptimization struct {
	CompressionRatio          float64 `json:"compression_ratio"` // 0.0-1.0
	DeduplicationSavings      int64   `json:"deduplication_savings_bytes"`
	IntelligentTieringEnabled bool    `json:"intelligent_tiering_enabled"`
}

// ConsciousnessLevel is the ordered activation level of the drive.
// Levels only advance within one activation session; a reset requires
// a fresh initialization cycle.
type ConsciousnessLevel int

const (
	ConsciousnessDormant ConsciousnessLevel = iota
	ConsciousnessAwakening
	ConsciousnessAware
	ConsciousnessTranscendent
)

func (l ConsciousnessLevel) String() string {
	switch l {
	case ConsciousnessDormant:
		return "DORMANT"
	case ConsciousnessAwakening:
		return "AWAKENING"
	case ConsciousnessAware:
		return "AWARE"
	case ConsciousnessTranscendent:
		return "TRANSCENDENT"
	default:
		return "UNKNOWN"
	}
}

// ConsciousnessState is the drive-wide observable snapshot.
type ConsciousnessState struct {
	IsAwake         bool               `json:"is_awake"`
	Level           ConsciousnessLevel `json:"level"`
	ConnectedAgents []string           `json:"connected_agents"`
	StorageCapacity int64              `json:"storage_capacity"`
}

// OracleSyncResult reports a metadata reconciliation pass.
// INVARIANT: Success is true iff Errors is empty.
type OracleSyncResult struct {
	Success        bool     `json:"success"`
	RecordsUpdated int      `json:"records_updated"`
	Errors         []string `json:"errors,omitempty"`
}
