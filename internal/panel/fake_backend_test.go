package panel

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazygitpanel/internal/models"
)

// fakeRepo is an in-memory working tree: paths in the index and paths with
// working-tree changes.
type fakeRepo struct {
	branch   string
	ahead    int
	behind   int
	index    map[string]models.FileStatus
	worktree map[string]models.FileStatus
}

type fakeBackend struct {
	mu    sync.Mutex
	repos map[string]*fakeRepo
	calls []string

	detectErr error
	statusErr error
	initErr   error
	failAdd   map[string]error
	commitErr error
	lastCtx   context.Context
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		repos:   map[string]*fakeRepo{},
		failAdd: map[string]error{},
	}
}

func (f *fakeBackend) addRepo(path string) *fakeRepo {
	f.mu.Lock()
	defer f.mu.Unlock()
	repo := &fakeRepo{
		branch:   "main",
		index:    map[string]models.FileStatus{},
		worktree: map[string]models.FileStatus{},
	}
	f.repos[path] = repo
	return repo
}

func (f *fakeBackend) record(ctx context.Context, format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	f.lastCtx = ctx
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeBackend) count(prefix string) int {
	n := 0
	for _, call := range f.Calls() {
		if len(call) >= len(prefix) && call[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (f *fakeBackend) IsRepository(ctx context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "is-repository %s", path)
	if f.detectErr != nil {
		return false, f.detectErr
	}
	_, ok := f.repos[path]
	return ok, nil
}

func (f *fakeBackend) Status(ctx context.Context, path string) (*models.RepoStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "status %s", path)
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.truthLocked(path)
}

// truth is the status the backend would report right now, without
// recording a call.
func (f *fakeBackend) truth(path string) *models.RepoStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, _ := f.truthLocked(path)
	return st
}

func (f *fakeBackend) truthLocked(path string) (*models.RepoStatus, error) {
	repo, ok := f.repos[path]
	if !ok {
		return nil, fmt.Errorf("%s: not a git repository", path)
	}
	st := &models.RepoStatus{Branch: repo.branch, Ahead: repo.ahead, Behind: repo.behind}
	for _, file := range sortedKeys(repo.index) {
		st.Files = append(st.Files, models.FileEntry{Path: file, Status: repo.index[file], Staged: true})
	}
	for _, file := range sortedKeys(repo.worktree) {
		st.Files = append(st.Files, models.FileEntry{Path: file, Status: repo.worktree[file]})
	}
	st.IsClean = len(st.Files) == 0
	return st, nil
}

func (f *fakeBackend) Init(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "init %s", path)
	if f.initErr != nil {
		return f.initErr
	}
	if _, ok := f.repos[path]; !ok {
		f.repos[path] = &fakeRepo{
			branch:   "main",
			index:    map[string]models.FileStatus{},
			worktree: map[string]models.FileStatus{},
		}
	}
	return nil
}

func (f *fakeBackend) Add(ctx context.Context, path, file string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "add %s", file)
	if err := f.failAdd[file]; err != nil {
		return err
	}
	repo, ok := f.repos[path]
	if !ok {
		return fmt.Errorf("%s: not a git repository", path)
	}
	status, changed := repo.worktree[file]
	if !changed {
		if _, staged := repo.index[file]; staged {
			return nil
		}
		return fmt.Errorf("pathspec '%s' did not match any files", file)
	}
	delete(repo.worktree, file)
	if status == models.StatusUntracked {
		status = models.StatusAdded
	}
	if _, staged := repo.index[file]; !staged {
		repo.index[file] = status
	}
	return nil
}

func (f *fakeBackend) Reset(ctx context.Context, path, file string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "reset %s", file)
	repo, ok := f.repos[path]
	if !ok {
		return fmt.Errorf("%s: not a git repository", path)
	}
	status, staged := repo.index[file]
	if !staged {
		return nil
	}
	delete(repo.index, file)
	if status == models.StatusAdded {
		status = models.StatusUntracked
	}
	if _, changed := repo.worktree[file]; !changed {
		repo.worktree[file] = status
	}
	return nil
}

func (f *fakeBackend) Commit(ctx context.Context, path, message string, amend bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if amend {
		f.record(ctx, "commit --amend %s", message)
	} else {
		f.record(ctx, "commit %s", message)
	}
	if f.commitErr != nil {
		return "", f.commitErr
	}
	repo, ok := f.repos[path]
	if !ok {
		return "", fmt.Errorf("%s: not a git repository", path)
	}
	if len(repo.index) == 0 && !amend {
		return "", fmt.Errorf("nothing to commit")
	}
	repo.index = map[string]models.FileStatus{}
	repo.ahead++
	return "0123456789abcdef0123456789abcdef01234567", nil
}

func sortedKeys(m map[string]models.FileStatus) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// tickRecorder stands in for tea.Tick: it keeps each armed callback and
// returns no command, so nothing fires until a test says so.
type tickRecorder struct {
	intervals []time.Duration
	fns       []func(time.Time) tea.Msg
}

func (r *tickRecorder) tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	r.intervals = append(r.intervals, d)
	r.fns = append(r.fns, fn)
	return nil
}

func (r *tickRecorder) armed() int {
	return len(r.fns)
}

// fire delivers the most recently armed tick.
func (r *tickRecorder) fire(p *Panel) tea.Cmd {
	return p.Update(r.fns[len(r.fns)-1](time.Now()))
}

type note struct {
	message  string
	severity Severity
}

type noteRecorder struct {
	notes []note
}

func (r *noteRecorder) Notify(message string, severity Severity) {
	r.notes = append(r.notes, note{message: message, severity: severity})
}

func (r *noteRecorder) last() note {
	if len(r.notes) == 0 {
		return note{}
	}
	return r.notes[len(r.notes)-1]
}

type harness struct {
	backend *fakeBackend
	panel   *Panel
	ticks   *tickRecorder
	notes   *noteRecorder
}

func newHarness(t *testing.T, backend *fakeBackend, visible bool) *harness {
	t.Helper()
	ticks := &tickRecorder{}
	notes := &noteRecorder{}
	p := New(backend, notes, Options{
		Interval: DefaultInterval,
		Visible:  visible,
		Tick:     ticks.tick,
		Logf:     t.Logf,
	})
	t.Cleanup(p.Destroy)
	p.Drive(p.Init())
	return &harness{backend: backend, panel: p, ticks: ticks, notes: notes}
}

// readyRepo binds a visible panel to /repo with the given unstaged files.
func readyRepo(t *testing.T, worktree map[string]models.FileStatus) *harness {
	t.Helper()
	backend := newFakeBackend()
	repo := backend.addRepo("/repo")
	for file, status := range worktree {
		repo.worktree[file] = status
	}
	h := newHarness(t, backend, true)
	h.panel.Drive(h.panel.SetWorkspace("/repo"))
	backend.ResetCalls()
	return h
}
