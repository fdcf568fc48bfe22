// Package panel keeps a local mirror of a repository's working-tree state
// and reconciles it with a git backend.
//
// The panel is a bubbletea component: commands arrive as messages through
// Update, backend calls leave as tea.Cmd effects, and their results come back
// as messages. All state is owned by the goroutine calling Update.
package panel

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	log "github.com/chmouel/lazygitpanel/internal/log"
	"github.com/chmouel/lazygitpanel/internal/models"
)

// Backend is the git implementation the panel drives.
type Backend interface {
	IsRepository(ctx context.Context, path string) (bool, error)
	Status(ctx context.Context, path string) (*models.RepoStatus, error)
	Init(ctx context.Context, path string) error
	Add(ctx context.Context, path, file string) error
	Reset(ctx context.Context, path, file string) error
	Commit(ctx context.Context, path, message string, amend bool) (string, error)
}

// Options configures a Panel.
type Options struct {
	// Interval is the polling period. Zero or negative disables polling.
	Interval time.Duration
	// Visible is the initial visibility.
	Visible bool
	// Tick overrides tea.Tick.
	Tick TickFunc
	// Logf receives diagnostics. Defaults to the debug log.
	Logf func(string, ...any)
}

// WorkspaceChangedMsg binds a new workspace. An empty Path means none.
type WorkspaceChangedMsg struct {
	Path string
}

// VisibilityMsg reports whether the panel is on screen.
type VisibilityMsg struct {
	Visible bool
}

// RefreshMsg forces a refresh.
type RefreshMsg struct{}

// GitDirChangedMsg reports activity in the repository's git directory.
type GitDirChangedMsg struct{}

// Panel is the git status panel state machine.
type Panel struct {
	backend  Backend
	notifier Notifier
	logf     func(string, ...any)

	ctx    context.Context
	cancel context.CancelFunc

	workspace    string
	hasWorkspace bool
	repo         repoFlag
	status       *models.RepoStatus
	lastErr      error
	draft        CommitDraft
	visible      bool

	// generation is bumped on every workspace change. Results tagged with an
	// older generation are dropped.
	generation uint64
	// requestSeq numbers status requests; appliedSeq is the newest applied
	// in the current generation.
	requestSeq    uint64
	appliedSeq    uint64
	statusPending int
	mutations     int

	scheduler *Scheduler
	destroyed bool
}

// New creates a panel with no workspace bound.
func New(backend Backend, notifier Notifier, opts Options) *Panel {
	ctx, cancel := context.WithCancel(context.Background())
	logf := opts.Logf
	if logf == nil {
		logf = log.Named("panel")
	}
	return &Panel{
		backend:   backend,
		notifier:  notifier,
		logf:      logf,
		ctx:       ctx,
		cancel:    cancel,
		visible:   opts.Visible,
		scheduler: NewScheduler(opts.Interval, opts.Tick),
	}
}

// Init starts the refresh scheduler.
func (p *Panel) Init() tea.Cmd {
	if p.destroyed {
		return nil
	}
	return p.scheduler.Start()
}

// Update applies msg and returns the effects it produces. Messages the panel
// does not know are ignored.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	if p.destroyed {
		return nil
	}

	switch msg := msg.(type) {
	case WorkspaceChangedMsg:
		return p.SetWorkspace(msg.Path)
	case VisibilityMsg:
		return p.SetVisible(msg.Visible)
	case RefreshMsg:
		return p.Refresh()
	case GitDirChangedMsg:
		if !p.shouldPoll() {
			return nil
		}
		return p.refreshStatus()
	case tickMsg:
		return p.handleTick(msg)
	case detectResultMsg:
		return p.handleDetect(msg)
	case statusResultMsg:
		p.handleStatus(msg)
	case mutationDoneMsg:
		return p.handleMutationDone(msg)
	}
	return nil
}

// SetWorkspace binds path, discards the cached status of the previous
// workspace, and starts repository detection.
func (p *Panel) SetWorkspace(path string) tea.Cmd {
	if p.destroyed {
		return nil
	}
	if path != "" {
		path = filepath.Clean(path)
	}

	p.generation++
	p.appliedSeq = 0
	p.workspace = path
	p.hasWorkspace = path != ""
	p.repo = repoUnknown
	p.status = nil
	p.lastErr = nil
	p.debugf("workspace changed to %q (generation %d)", path, p.generation)

	return p.checkRepository()
}

// SetVisible updates visibility. Becoming visible refreshes at once instead
// of waiting for the next tick.
func (p *Panel) SetVisible(visible bool) tea.Cmd {
	if p.destroyed {
		return nil
	}
	was := p.visible
	p.visible = visible
	if visible && !was && p.shouldPoll() {
		return p.refreshStatus()
	}
	return nil
}

// Refresh forces a status refresh. A workspace not known to be a repository
// is detected again instead.
func (p *Panel) Refresh() tea.Cmd {
	if p.destroyed || !p.hasWorkspace {
		return nil
	}
	if p.repo != repoYes {
		return p.checkRepository()
	}
	return p.refreshStatus()
}

// Destroy stops the scheduler and cancels in-flight backend calls. Later
// messages are ignored.
func (p *Panel) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.scheduler.Stop()
	p.cancel()
	p.debugf("destroyed")
}

// Destroyed reports whether Destroy was called.
func (p *Panel) Destroyed() bool {
	return p.destroyed
}

// Workspace returns the bound workspace path, or "" when none is bound.
func (p *Panel) Workspace() string {
	return p.workspace
}

// Visible reports the visibility flag.
func (p *Panel) Visible() bool {
	return p.visible
}

// State returns the current repository state.
func (p *Panel) State() RepoState {
	return deriveState(p.hasWorkspace, p.repo, p.status, p.lastErr)
}

// Status returns a copy of the cached status, or nil.
func (p *Panel) Status() *models.RepoStatus {
	return p.status.Clone()
}

// Err returns the last sync error, if the panel is in StateError.
func (p *Panel) Err() error {
	return p.lastErr
}

// Draft returns the commit draft.
func (p *Panel) Draft() CommitDraft {
	return p.draft
}

// SetDraft replaces the commit message.
func (p *Panel) SetDraft(message string) {
	p.draft.Message = message
}

// ClearDraft empties the commit message.
func (p *Panel) ClearDraft() {
	p.draft = CommitDraft{}
}

// Scheduler exposes the refresh scheduler.
func (p *Panel) Scheduler() *Scheduler {
	return p.scheduler
}

// Snapshot copies out the inputs of the render trigger.
func (p *Panel) Snapshot() Snapshot {
	return Snapshot{
		Workspace: p.workspace,
		State:     p.State(),
		Status:    p.status.Clone(),
		Draft:     p.draft,
		Err:       p.lastErr,
		Visible:   p.visible,
		Busy:      p.mutations > 0,
	}
}

// View projects the current state.
func (p *Panel) View() ViewModel {
	return Project(p.Snapshot())
}

// Drive runs cmd and every follow-up effect synchronously, feeding results
// back through Update until no work remains. Ticks are never followed, so a
// panel with a real tea.Tick scheduler must not be driven this way.
func (p *Panel) Drive(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, tickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, p.Update(msg))
		}
	}
}

func (p *Panel) shouldPoll() bool {
	return !p.destroyed && p.visible && p.hasWorkspace && p.repo == repoYes
}

func (p *Panel) handleTick(msg tickMsg) tea.Cmd {
	if !p.scheduler.owns(msg) {
		p.debugf("dropping tick from scheduler %d", msg.id)
		return nil
	}
	next := p.scheduler.arm()
	switch {
	case !p.shouldPoll():
		return next
	case p.statusPending > 0:
		// a refresh issued after this tick was armed is still in flight
		p.debugf("tick skipped, %d status request(s) pending", p.statusPending)
		return next
	}
	return tea.Batch(next, p.refreshStatus())
}

func (p *Panel) notify(message string, severity Severity) {
	if p.notifier == nil {
		return
	}
	p.notifier.Notify(message, severity)
}

func (p *Panel) debugf(format string, args ...any) {
	if p.logf == nil {
		return
	}
	p.logf(format, args...)
}
