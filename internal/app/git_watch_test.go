package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazygitpanel/internal/panel"
)

func newWatchedModel(t *testing.T, backend watchBackend, workspace string) *Model {
	t.Helper()
	cfg := testConfig()
	cfg.WatchGitDir = true
	m := NewModel(cfg, Options{Workspace: workspace, Backend: backend, Tick: noTick})
	m.logf = t.Logf
	require.NotNil(t, m.watcher)
	t.Cleanup(func() {
		m.stopGitWatcher()
		m.panel.Destroy()
	})
	drive(t, m, m.Init())
	return m
}

func TestGitWatcherFollowsWorkspace(t *testing.T) {
	backend := watchBackend{newMemBackend()}
	repoA := backend.addRepo("/a")
	repoA.gitDir = t.TempDir()
	repoB := backend.addRepo("/b")
	repoB.gitDir = t.TempDir()

	m := newWatchedModel(t, backend, "/a")
	require.True(t, m.watcher.Started())
	assert.Equal(t, repoA.gitDir, m.watcher.GitDir())

	_, cmd := m.Update(panel.WorkspaceChangedMsg{Path: "/b"})
	drive(t, m, cmd)
	require.True(t, m.watcher.Started())
	assert.Equal(t, repoB.gitDir, m.watcher.GitDir())
	assert.Equal(t, "/b", m.watchedWorkspace)

	_, cmd = m.Update(panel.WorkspaceChangedMsg{Path: "/plain"})
	drive(t, m, cmd)
	assert.False(t, m.watcher.Started())
	assert.Equal(t, panel.StateNotRepository, m.panel.State())
}

func TestGitWatcherNotStartedWithoutGitDir(t *testing.T) {
	backend := watchBackend{newMemBackend()}
	backend.addRepo("/a")

	m := newWatchedModel(t, backend, "/a")
	assert.Equal(t, panel.StateReady, m.panel.State())
	assert.False(t, m.watcher.Started())
	assert.Equal(t, "/a", m.watchAttempted, "resolution is not retried on every update")
}

func TestGitDirChangedRefreshesWithDebounce(t *testing.T) {
	backend := watchBackend{newMemBackend()}
	repo := backend.addRepo("/a", "x.go")
	repo.gitDir = t.TempDir()
	m := newWatchedModel(t, backend, "/a")
	backend.ResetCalls()

	_, cmd := m.Update(gitDirChangedMsg{})
	drive(t, m, cmd)
	assert.Equal(t, []string{"status /a"}, backend.Calls())

	_, cmd = m.Update(gitDirChangedMsg{})
	drive(t, m, cmd)
	assert.Equal(t, []string{"status /a"}, backend.Calls(), "second event inside the debounce window")
}

func TestGitDirChangedIgnoredWhileHidden(t *testing.T) {
	backend := watchBackend{newMemBackend()}
	repo := backend.addRepo("/a")
	repo.gitDir = t.TempDir()
	m := newWatchedModel(t, backend, "/a")
	m.panel.SetVisible(false)
	backend.ResetCalls()

	_, cmd := m.Update(gitDirChangedMsg{})
	drive(t, m, cmd)
	assert.Empty(t, backend.Calls())
}
