package panel

import (
	"errors"
	"fmt"
)

var (
	// ErrNoWorkspace is returned when an operation needs a bound workspace.
	ErrNoWorkspace = errors.New("no workspace is open")
	// ErrEmptyCommitMessage rejects a commit before any backend call.
	ErrEmptyCommitMessage = errors.New("commit message is required")
)

// DetectionError wraps a failed is-repository check. The panel degrades to
// StateNotRepository when it sees one.
type DetectionError struct {
	Path string
	Err  error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("repository detection failed for %s: %v", e.Path, e.Err)
}

func (e *DetectionError) Unwrap() error { return e.Err }

// SyncError wraps a failed status fetch.
type SyncError struct {
	Path string
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("failed to load status for %s: %v", e.Path, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// MutationError wraps a failed write call.
type MutationError struct {
	Op   Operation
	File string
	Err  error
}

func (e *MutationError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Op, e.File, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// Notification is the user-facing text for the failure.
func (e *MutationError) Notification() string {
	return fmt.Sprintf("Failed to %s: %v", e.Op, e.Err)
}
