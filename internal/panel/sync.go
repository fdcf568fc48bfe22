package panel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazygitpanel/internal/models"
)

type detectResultMsg struct {
	generation uint64
	path       string
	isRepo     bool
	err        error
}

type statusResultMsg struct {
	generation uint64
	seq        uint64
	path       string
	status     *models.RepoStatus
	err        error
}

// checkRepository runs repository detection for the bound workspace.
func (p *Panel) checkRepository() tea.Cmd {
	if !p.hasWorkspace {
		p.repo = repoUnknown
		p.status = nil
		p.lastErr = nil
		return nil
	}

	p.repo = repoUnknown
	p.lastErr = nil
	ctx, backend := p.ctx, p.backend
	generation, path := p.generation, p.workspace
	return func() tea.Msg {
		ok, err := backend.IsRepository(ctx, path)
		return detectResultMsg{generation: generation, path: path, isRepo: ok, err: err}
	}
}

func (p *Panel) handleDetect(msg detectResultMsg) tea.Cmd {
	if msg.generation != p.generation {
		p.debugf("dropping detection for %s from generation %d", msg.path, msg.generation)
		return nil
	}

	if msg.err != nil {
		p.debugf("%v", &DetectionError{Path: msg.path, Err: msg.err})
		p.repo = repoNo
		p.status = nil
		return nil
	}
	if !msg.isRepo {
		p.debugf("%s is not a git repository", msg.path)
		p.repo = repoNo
		p.status = nil
		return nil
	}

	p.repo = repoYes
	return p.refreshStatus()
}

// refreshStatus is the only way the status cache gets populated. It is a
// no-op unless a workspace is bound and known to be a repository.
func (p *Panel) refreshStatus() tea.Cmd {
	if p.destroyed || !p.hasWorkspace || p.repo != repoYes {
		return nil
	}

	p.requestSeq++
	p.statusPending++
	ctx, backend := p.ctx, p.backend
	generation, seq, path := p.generation, p.requestSeq, p.workspace
	return func() tea.Msg {
		status, err := backend.Status(ctx, path)
		return statusResultMsg{generation: generation, seq: seq, path: path, status: status, err: err}
	}
}

func (p *Panel) handleStatus(msg statusResultMsg) {
	if p.statusPending > 0 {
		p.statusPending--
	}

	switch {
	case msg.generation != p.generation:
		p.debugf("dropping status for %s from generation %d", msg.path, msg.generation)
		return
	case msg.seq <= p.appliedSeq:
		p.debugf("dropping status #%d, #%d already applied", msg.seq, p.appliedSeq)
		return
	case p.repo != repoYes:
		return
	}
	p.appliedSeq = msg.seq

	if msg.err != nil {
		p.lastErr = &SyncError{Path: msg.path, Err: msg.err}
		p.status = nil
		p.debugf("%v", p.lastErr)
		return
	}
	if msg.status == nil {
		msg.status = &models.RepoStatus{IsClean: true}
	}
	p.status = msg.status
	p.lastErr = nil
}
