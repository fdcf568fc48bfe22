package app

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazygitpanel/internal/config"
	"github.com/chmouel/lazygitpanel/internal/models"
)

type memRepo struct {
	staged   map[string]models.FileStatus
	unstaged map[string]models.FileStatus
	gitDir   string
}

// memBackend is an in-memory panel backend keyed by workspace path.
type memBackend struct {
	mu    sync.Mutex
	repos map[string]*memRepo
	calls []string
}

func newMemBackend() *memBackend {
	return &memBackend{repos: map[string]*memRepo{}}
}

func (b *memBackend) addRepo(path string, unstaged ...string) *memRepo {
	b.mu.Lock()
	defer b.mu.Unlock()
	repo := &memRepo{staged: map[string]models.FileStatus{}, unstaged: map[string]models.FileStatus{}}
	for _, f := range unstaged {
		repo.unstaged[f] = models.StatusModified
	}
	b.repos[path] = repo
	return repo
}

func (b *memBackend) record(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *memBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *memBackend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

func (b *memBackend) IsRepository(_ context.Context, path string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("is-repository %s", path)
	_, ok := b.repos[path]
	return ok, nil
}

func (b *memBackend) Status(_ context.Context, path string) (*models.RepoStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("status %s", path)
	repo, ok := b.repos[path]
	if !ok {
		return nil, fmt.Errorf("not a git repository")
	}
	st := &models.RepoStatus{Branch: "main"}
	for _, f := range sortedPaths(repo.staged) {
		st.Files = append(st.Files, models.FileEntry{Path: f, Status: repo.staged[f], Staged: true})
	}
	for _, f := range sortedPaths(repo.unstaged) {
		st.Files = append(st.Files, models.FileEntry{Path: f, Status: repo.unstaged[f]})
	}
	st.IsClean = len(st.Files) == 0
	return st, nil
}

func (b *memBackend) Init(_ context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("init %s", path)
	if _, ok := b.repos[path]; !ok {
		b.repos[path] = &memRepo{staged: map[string]models.FileStatus{}, unstaged: map[string]models.FileStatus{}}
	}
	return nil
}

func (b *memBackend) Add(_ context.Context, path, file string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("add %s", file)
	repo := b.repos[path]
	if status, ok := repo.unstaged[file]; ok {
		delete(repo.unstaged, file)
		repo.staged[file] = status
	}
	return nil
}

func (b *memBackend) Reset(_ context.Context, path, file string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("reset %s", file)
	repo := b.repos[path]
	if status, ok := repo.staged[file]; ok {
		delete(repo.staged, file)
		repo.unstaged[file] = status
	}
	return nil
}

func (b *memBackend) Commit(_ context.Context, path, message string, amend bool) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if amend {
		b.record("commit --amend %s", message)
	} else {
		b.record("commit %s", message)
	}
	repo := b.repos[path]
	if len(repo.staged) == 0 && !amend {
		return "", fmt.Errorf("nothing to commit")
	}
	repo.staged = map[string]models.FileStatus{}
	return "deadbeef", nil
}

// watchBackend also resolves git directories, enabling the watcher.
type watchBackend struct {
	*memBackend
}

func (b watchBackend) GitDir(_ context.Context, path string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	repo, ok := b.repos[path]
	if !ok || repo.gitDir == "" {
		return "", fmt.Errorf("not a git repository")
	}
	return repo.gitDir, nil
}

func sortedPaths(m map[string]models.FileStatus) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func noTick(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }

func testConfig() *config.AppConfig {
	cfg := config.DefaultConfig()
	cfg.AutoRefresh = false
	cfg.WatchGitDir = false
	cfg.ShowIcons = false
	return cfg
}

func newTestModel(t *testing.T, backend *memBackend, workspace string) *Model {
	t.Helper()
	m := NewModel(testConfig(), Options{Workspace: workspace, Backend: backend, Tick: noTick})
	m.logf = t.Logf
	m.execProcess = func(c *exec.Cmd, fn tea.ExecCallback) tea.Cmd {
		return func() tea.Msg { return fn(nil) }
	}
	m.writeClipboard = func(string) error { return nil }
	t.Cleanup(func() {
		m.stopGitWatcher()
		m.panel.Destroy()
	})
	drive(t, m, m.Init())
	return m
}

// drive runs cmd and every follow-up synchronously. Commands still blocked
// after a short wait (watcher event waits) are abandoned.
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 1000, "command loop did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg, ok := runCmd(next)
		if !ok {
			continue
		}
		switch msg := msg.(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func runCmd(cmd tea.Cmd) (tea.Msg, bool) {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg, true
	case <-time.After(100 * time.Millisecond):
		return nil, false
	}
}

func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		drive(t, m, sendKey(m, keyMsg(k)))
	}
}

func sendKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func typeText(t *testing.T, m *Model, text string) {
	t.Helper()
	for _, r := range text {
		press(t, m, string(r))
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func viewContains(m *Model, s string) bool {
	return strings.Contains(m.View(), s)
}
