package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazygitpanel/internal/panel"
)

// syncGitWatcher follows the panel: the watcher runs only while the bound
// workspace is a confirmed repository, and restarts on workspace changes.
func (m *Model) syncGitWatcher() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	workspace := m.panel.Workspace()
	state := m.panel.State()
	isRepo := state == panel.StateReady || state == panel.StateError

	if m.watcher.Started() && (!isRepo || workspace != m.watchedWorkspace) {
		m.debugf("stopping git watcher for %s", m.watchedWorkspace)
		m.watcher.Stop()
		m.watchedWorkspace = ""
	}
	if !isRepo {
		m.watchAttempted = ""
		return nil
	}
	if m.watcher.Started() || workspace == m.watchAttempted {
		return nil
	}

	m.watchAttempted = workspace
	started, err := m.watcher.Start(m.ctx, workspace)
	if err != nil {
		m.debugf("git watcher unavailable for %s: %v", workspace, err)
		return nil
	}
	if !started {
		return nil
	}
	m.watchedWorkspace = workspace
	return m.waitForGitWatchEvent()
}

func (m *Model) stopGitWatcher() {
	if m.watcher == nil || !m.watcher.Started() {
		return
	}
	m.watcher.Stop()
	m.watchedWorkspace = ""
}

func (m *Model) waitForGitWatchEvent() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	events := m.watcher.NextEvent()
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return gitDirChangedMsg{}
	}
}

func (m *Model) handleGitDirChanged() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	m.watcher.ResetWaiting()
	var refresh tea.Cmd
	if m.watcher.ShouldRefresh(time.Now()) {
		refresh = m.panel.Update(panel.GitDirChangedMsg{})
	}
	return tea.Batch(refresh, m.waitForGitWatchEvent())
}
