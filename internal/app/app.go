// Package app hosts the git status panel in a Bubble Tea program.
package app

import (
	"context"
	"os/exec"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazygitpanel/internal/app/commands"
	"github.com/chmouel/lazygitpanel/internal/app/screen"
	"github.com/chmouel/lazygitpanel/internal/config"
	"github.com/chmouel/lazygitpanel/internal/git"
	log "github.com/chmouel/lazygitpanel/internal/log"
	"github.com/chmouel/lazygitpanel/internal/panel"
	"github.com/chmouel/lazygitpanel/internal/theme"
	"github.com/chmouel/lazygitpanel/internal/watch"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Options configures a Model.
type Options struct {
	// Workspace is bound when the program starts.
	Workspace string
	// Backend overrides the git CLI backend.
	Backend panel.Backend
	// Tick overrides tea.Tick for the refresh scheduler and toast expiry.
	Tick panel.TickFunc
}

// Model is the Bubble Tea model wrapping the panel.
type Model struct {
	config  *config.AppConfig
	theme   *theme.Theme
	keys    keyMap
	logf    func(string, ...any)
	initial string

	panel   *panel.Panel
	toasts  *toastQueue
	screens *screen.Manager
	actions *commands.Registry

	watcher          *watch.Watcher
	watchedWorkspace string
	watchAttempted   string

	cursor  int
	offset  int
	history []string

	width  int
	height int

	ctx    context.Context
	cancel context.CancelFunc

	execProcess    func(*exec.Cmd, tea.ExecCallback) tea.Cmd
	writeClipboard func(string) error

	quitting bool
}

// NewModel creates the model. The workspace is bound by Init.
func NewModel(cfg *config.AppConfig, opts Options) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())

	backend := opts.Backend
	if backend == nil {
		backend = git.NewService(cfg.GitTimeout())
	}

	m := &Model{
		config:         cfg,
		theme:          theme.GetTheme(cfg.Theme),
		keys:           defaultKeyMap(),
		logf:           log.Named("app"),
		initial:        opts.Workspace,
		toasts:         newToastQueue(opts.Tick),
		screens:        screen.NewManager(),
		ctx:            ctx,
		cancel:         cancel,
		execProcess:    tea.ExecProcess,
		writeClipboard: clipboard.WriteAll,
	}
	m.panel = panel.New(backend, m.toasts, panel.Options{
		Interval: cfg.RefreshInterval(),
		Visible:  true,
		Tick:     opts.Tick,
		Logf:     log.Named("panel"),
	})
	if resolver, ok := backend.(watch.GitDirResolver); ok && cfg.WatchGitDir {
		m.watcher = watch.New(resolver, log.Named("watch"))
	}
	m.actions = commands.NewRegistry()
	m.registerActions()
	return m
}

// Panel exposes the wrapped panel.
func (m *Model) Panel() *panel.Panel {
	return m.panel
}

// Init binds the initial workspace and starts the refresh scheduler.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.panel.Init()}
	if m.initial != "" {
		cmds = append(cmds, m.panel.SetWorkspace(m.initial))
	}
	return m.after(tea.Batch(cmds...))
}

// Update routes terminal events to the overlays or key bindings and
// everything else to the panel.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.FocusMsg:
		return m, m.after(m.panel.SetVisible(true))
	case tea.BlurMsg:
		return m, m.after(m.panel.SetVisible(false))
	case tea.KeyMsg:
		return m, m.after(m.handleKey(msg))
	case gitDirChangedMsg:
		return m, m.after(m.handleGitDirChanged())
	case toastExpiredMsg:
		m.toasts.expire(msg.id)
		return m, nil
	case editorFinishedMsg:
		if msg.err != nil {
			m.toasts.Notify("Editor failed: "+msg.err.Error(), panel.SeverityError)
		}
		return m, m.after(m.panel.Refresh())
	}
	return m, m.after(m.panel.Update(msg))
}

// after runs the bookkeeping every update needs: watcher lifecycle, cursor
// bounds and toast expiry.
func (m *Model) after(cmd tea.Cmd) tea.Cmd {
	m.clampCursor()
	return tea.Batch(cmd, m.syncGitWatcher(), m.toasts.drain())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.screens.IsActive() {
		return m.screens.HandleKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return nil
	case key.Matches(msg, m.keys.Palette):
		m.showPalette()
		return nil
	}

	for _, ab := range m.keys.actionBindings() {
		if key.Matches(msg, ab.binding) {
			return m.actions.Execute(ab.id)
		}
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.stopGitWatcher()
	m.panel.Destroy()
	m.cancel()
	return tea.Quit
}

func (m *Model) rows() []panel.FileView {
	vm := m.panel.View()
	if vm.Kind != panel.ViewReady {
		return nil
	}
	rows := make([]panel.FileView, 0, len(vm.Staged)+len(vm.Unstaged))
	rows = append(rows, vm.Staged...)
	return append(rows, vm.Unstaged...)
}

func (m *Model) selected() (panel.FileView, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return panel.FileView{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) debugf(format string, args ...any) {
	if m.logf == nil {
		return
	}
	m.logf(format, args...)
}
