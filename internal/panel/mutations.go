package panel

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazygitpanel/internal/models"
)

// Operation names a mutation. Its String form reads as a verb phrase.
type Operation int

const (
	OpStage Operation = iota
	OpUnstage
	OpStageAll
	OpUnstageAll
	OpCommit
	OpAmend
	OpInit
)

func (o Operation) String() string {
	switch o {
	case OpStage:
		return "stage file"
	case OpUnstage:
		return "unstage file"
	case OpStageAll:
		return "stage all files"
	case OpUnstageAll:
		return "unstage all files"
	case OpCommit:
		return "commit"
	case OpAmend:
		return "amend commit"
	case OpInit:
		return "initialize repository"
	default:
		return "run operation"
	}
}

type mutationDoneMsg struct {
	generation uint64
	op         Operation
	file       string
	commitID   string
	err        error
}

// writeFunc is one mutation's backend work against the workspace at path.
// It returns the file that failed, if any, and a commit id for commits.
type writeFunc func(ctx context.Context, backend Backend, path string) (file, commitID string, err error)

// Stage adds file to the index.
func (p *Panel) Stage(file string) tea.Cmd {
	return p.mutate(OpStage, func(ctx context.Context, b Backend, path string) (string, string, error) {
		return file, "", b.Add(ctx, path, file)
	})
}

// Unstage removes file from the index, keeping working-tree changes.
func (p *Panel) Unstage(file string) tea.Cmd {
	return p.mutate(OpUnstage, func(ctx context.Context, b Backend, path string) (string, string, error) {
		return file, "", b.Reset(ctx, path, file)
	})
}

// StageAll stages every unstaged file in the cached status as it is now.
// The first failure aborts the rest.
func (p *Panel) StageAll() tea.Cmd {
	files := paths(p.status.Unstaged())
	return p.mutate(OpStageAll, func(ctx context.Context, b Backend, path string) (string, string, error) {
		for _, file := range files {
			if err := b.Add(ctx, path, file); err != nil {
				return file, "", err
			}
		}
		return "", "", nil
	})
}

// UnstageAll unstages every staged file in the cached status as it is now.
// The first failure aborts the rest.
func (p *Panel) UnstageAll() tea.Cmd {
	files := paths(p.status.Staged())
	return p.mutate(OpUnstageAll, func(ctx context.Context, b Backend, path string) (string, string, error) {
		for _, file := range files {
			if err := b.Reset(ctx, path, file); err != nil {
				return file, "", err
			}
		}
		return "", "", nil
	})
}

// Commit records the index with the draft message.
func (p *Panel) Commit() tea.Cmd {
	return p.commit(OpCommit, false)
}

// Amend replaces the last commit with the index and the draft message.
func (p *Panel) Amend() tea.Cmd {
	return p.commit(OpAmend, true)
}

func (p *Panel) commit(op Operation, amend bool) tea.Cmd {
	if p.destroyed {
		return nil
	}
	message := strings.TrimSpace(p.draft.Message)
	if message == "" {
		p.debugf("%s rejected: %v", op, ErrEmptyCommitMessage)
		p.notify("Commit message is required", SeverityError)
		return nil
	}
	return p.mutate(op, func(ctx context.Context, b Backend, path string) (string, string, error) {
		id, err := b.Commit(ctx, path, message, amend)
		return "", id, err
	})
}

// InitRepository creates a repository in the workspace and, on success,
// runs detection again.
func (p *Panel) InitRepository() tea.Cmd {
	return p.mutate(OpInit, func(ctx context.Context, b Backend, path string) (string, string, error) {
		return "", "", b.Init(ctx, path)
	})
}

func (p *Panel) mutate(op Operation, write writeFunc) tea.Cmd {
	if p.destroyed {
		return nil
	}
	if !p.hasWorkspace {
		err := &MutationError{Op: op, Err: ErrNoWorkspace}
		p.debugf("%v", err)
		p.notify(err.Notification(), SeverityError)
		return nil
	}

	p.mutations++
	ctx, backend := p.ctx, p.backend
	generation, path := p.generation, p.workspace
	return func() tea.Msg {
		file, id, err := write(ctx, backend, path)
		return mutationDoneMsg{generation: generation, op: op, file: file, commitID: id, err: err}
	}
}

func (p *Panel) handleMutationDone(msg mutationDoneMsg) tea.Cmd {
	if p.mutations > 0 {
		p.mutations--
	}

	if msg.err != nil {
		err := &MutationError{Op: msg.op, File: msg.file, Err: msg.err}
		p.debugf("%v", err)
		p.notify(err.Notification(), SeverityError)
	} else {
		switch msg.op {
		case OpCommit, OpAmend:
			p.debugf("%s created %s", msg.op, msg.commitID)
			p.ClearDraft()
			p.notify("Committed successfully", SeveritySuccess)
		case OpInit:
			p.notify("Repository initialized", SeveritySuccess)
		}
	}

	if msg.generation != p.generation {
		// the workspace changed underneath; its own detection is running
		return nil
	}
	if msg.op == OpInit && msg.err == nil {
		return p.checkRepository()
	}
	return p.refreshStatus()
}

func paths(entries []models.FileEntry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Path)
	}
	return out
}
