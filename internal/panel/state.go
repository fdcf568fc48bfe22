package panel

import (
	"github.com/chmouel/lazygitpanel/internal/models"
)

// RepoState is the repository state shown by the panel. It is derived from
// the panel fields on demand and never stored.
type RepoState int

const (
	StateNoWorkspace RepoState = iota
	StateNotRepository
	StateLoading
	StateReady
	StateError
)

func (s RepoState) String() string {
	switch s {
	case StateNoWorkspace:
		return "no-workspace"
	case StateNotRepository:
		return "not-repository"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// repoFlag is the result of the last repository detection.
type repoFlag int

const (
	repoUnknown repoFlag = iota
	repoYes
	repoNo
)

func deriveState(hasWorkspace bool, repo repoFlag, cache *models.RepoStatus, lastErr error) RepoState {
	switch {
	case !hasWorkspace:
		return StateNoWorkspace
	case repo == repoNo:
		return StateNotRepository
	case lastErr != nil:
		return StateError
	case repo == repoUnknown || cache == nil:
		return StateLoading
	default:
		return StateReady
	}
}

// CommitDraft is the pending commit message.
type CommitDraft struct {
	Message string
}

// Snapshot is everything the render trigger needs, copied out of the panel.
type Snapshot struct {
	Workspace string
	State     RepoState
	Status    *models.RepoStatus
	Draft     CommitDraft
	Err       error
	Visible   bool
	Busy      bool
}
