package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/chmouel/lazygitpanel/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// newRepo initialises a repository with a deterministic identity.
func newRepo(t *testing.T, svc *Service) string {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, svc.Init(ctx, dir))
	for _, kv := range [][]string{
		{"user.name", "Panel Test"},
		{"user.email", "panel@example.com"},
		{"commit.gpgsign", "false"},
	} {
		_, err := svc.run(ctx, dir, "config", kv[0], kv[1])
		require.NoError(t, err)
	}
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNewService(t *testing.T) {
	svc := NewService(time.Second)

	assert.NotNil(t, svc.semaphore)
	assert.Equal(t, time.Second, svc.timeout)
	assert.GreaterOrEqual(t, cap(svc.semaphore), 2)
	assert.LessOrEqual(t, cap(svc.semaphore), 8)
	assert.Len(t, svc.semaphore, cap(svc.semaphore), "semaphore starts full")
}

func TestCommandErrorMessage(t *testing.T) {
	inner := errors.New("exit status 128")
	err := &CommandError{Args: []string{"status"}, ExitCode: 128, Stderr: "fatal: boom", Err: inner}
	assert.Equal(t, "git status: fatal: boom", err.Error())
	assert.ErrorIs(t, err, inner)

	noStderr := &CommandError{Args: []string{"add", "--", "x"}, ExitCode: 1}
	assert.Equal(t, "git add -- x: exit 1", noStderr.Error())
}

func TestRunGitMissing(t *testing.T) {
	orig := LookupPath
	LookupPath = func(string) (string, error) { return "", exec.ErrNotFound }
	t.Cleanup(func() { LookupPath = orig })

	svc := NewService(0)
	_, err := svc.Status(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestIsRepository(t *testing.T) {
	requireGit(t)
	svc := NewService(10 * time.Second)
	ctx := context.Background()

	plain := t.TempDir()
	// keep git from discovering a repository above the temp dir
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(plain))

	ok, err := svc.IsRepository(ctx, plain)
	require.NoError(t, err)
	assert.False(t, ok)

	repo := newRepo(t, svc)
	ok, err = svc.IsRepository(ctx, repo)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.IsRepository(ctx, filepath.Join(plain, "does-not-exist"))
	require.Error(t, err)
}

func TestStageUnstageCommitRoundTrip(t *testing.T) {
	requireGit(t)
	svc := NewService(10 * time.Second)
	ctx := context.Background()
	repo := newRepo(t, svc)

	writeFile(t, repo, "a.js", "one\n")

	st, err := svc.Status(ctx, repo)
	require.NoError(t, err)
	assert.False(t, st.IsClean)
	assert.Equal(t, []models.FileEntry{{Path: "a.js", Status: models.StatusUntracked}}, st.Files)

	require.NoError(t, svc.Add(ctx, repo, "a.js"))
	st, err = svc.Status(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, []models.FileEntry{{Path: "a.js", Status: models.StatusAdded, Staged: true}}, st.Files)

	// unstaging on an unborn branch
	require.NoError(t, svc.Reset(ctx, repo, "a.js"))
	st, err = svc.Status(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, []models.FileEntry{{Path: "a.js", Status: models.StatusUntracked}}, st.Files)

	require.NoError(t, svc.Add(ctx, repo, "a.js"))
	id, err := svc.Commit(ctx, repo, "first", false)
	require.NoError(t, err)
	assert.Len(t, id, 40)

	st, err = svc.Status(ctx, repo)
	require.NoError(t, err)
	assert.True(t, st.IsClean)
	assert.NotEmpty(t, st.Branch)
	assert.Zero(t, st.Ahead)
	assert.Zero(t, st.Behind)

	writeFile(t, repo, "a.js", "two\n")
	require.NoError(t, svc.Add(ctx, repo, "a.js"))
	writeFile(t, repo, "a.js", "three\n")
	st, err = svc.Status(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, []models.FileEntry{
		{Path: "a.js", Status: models.StatusModified, Staged: true},
		{Path: "a.js", Status: models.StatusModified},
	}, st.Files)

	amended, err := svc.Commit(ctx, repo, "first, amended", true)
	require.NoError(t, err)
	assert.NotEqual(t, id, amended)
}

func TestCommitNothingStagedFails(t *testing.T) {
	requireGit(t)
	svc := NewService(10 * time.Second)
	repo := newRepo(t, svc)

	_, err := svc.Commit(context.Background(), repo, "empty", false)
	require.Error(t, err)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.NotZero(t, cmdErr.ExitCode)
}

func TestGitDir(t *testing.T) {
	requireGit(t)
	svc := NewService(10 * time.Second)
	repo := newRepo(t, svc)

	dir, err := svc.GitDir(context.Background(), repo)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
	assert.Equal(t, ".git", filepath.Base(dir))
}

func TestContextCancelled(t *testing.T) {
	requireGit(t)
	svc := NewService(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Status(ctx, t.TempDir())
	require.Error(t, err)
}
