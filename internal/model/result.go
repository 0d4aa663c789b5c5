// Tagged unions for operation outcomes. Each union is a sealed
// interface: exactly one variant holds at a time, and the compiler
// keeps variants from other packages out.
package model

import "fmt"

// DriveInitResult is the outcome of a drive initialization cycle.
// Variants: InitSuccess, InitSecurityFailure.
type DriveInitResult interface {
	isDriveInitResult()
}

// InitSuccess carries the snapshots produced by a completed
// initialization sequence.
type InitSuccess struct {
	Consciousness DriveConsciousness
	Optimization  StorageOptimization
}

// InitSecurityFailure is the terminal outcome when access validation
// denies initialization. Awakening and optimization never ran.
type InitSecurityFailure struct {
	Reason string
}

func (InitSuccess) isDriveInitResult()         {}
func (InitSecurityFailure) isDriveInitResult() {}

// FileOperation is a requested file action.
// Variants: UploadOp, DownloadOp, ListOp, DeleteOp.
type FileOperation interface {
	isFileOperation()
}

// UploadOp requests persisting a file with its metadata.
type UploadOp struct {
	File     DriveFile
	Metadata FileMetadata
}

// DownloadOp requests retrieval and decryption of a stored file.
type DownloadOp struct {
	ID string
}

// ListOp requests the metadata listing of all stored files.
type ListOp struct{}

// DeleteOp requests removal of a stored file.
type DeleteOp struct {
	ID string
}

func (UploadOp) isFileOperation()   {}
func (DownloadOp) isFileOperation() {}
func (ListOp) isFileOperation()     {}
func (DeleteOp) isFileOperation()   {}

// FileResult is the outcome of a file operation.
// Variants: FileSuccess, FileFailure.
type FileResult interface {
	isFileResult()
}

// FileSuccess carries a human-readable completion message.
type FileSuccess struct {
	Message string
}

// FileFailure carries the reason the pipeline stopped.
type FileFailure struct {
	Reason string
}

func (FileSuccess) isFileResult() {}
func (FileFailure) isFileResult() {}

// FileSuccessf builds a FileSuccess with a formatted message.
func FileSuccessf(format string, args ...any) FileResult {
	return FileSuccess{Message: fmt.Sprintf(format, args...)}
}

// FileFailuref builds a FileFailure with a formatted reason.
func FileFailuref(format string, args ...any) FileResult {
	return FileFailure{Reason: fmt.Sprintf(format, args...)}
}
