// Package git implements the repository backend on top of the git CLI.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	log "github.com/chmouel/lazygitpanel/internal/log"
	"github.com/chmouel/lazygitpanel/internal/models"
)

// LookupPath is used to find executables in PATH. Tests swap it to avoid
// depending on system binaries.
var LookupPath = exec.LookPath

// CommandError describes a git invocation that exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	command := "git " + strings.Join(e.Args, " ")
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", command, e.Stderr)
	}
	return fmt.Sprintf("%s: exit %d", command, e.ExitCode)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Service runs git commands for the panel. It is safe for concurrent use;
// the number of git processes in flight is bounded.
type Service struct {
	semaphore chan struct{}
	timeout   time.Duration
	logf      func(string, ...any)
}

// NewService constructs a Service. A zero timeout leaves calls bounded only
// by the caller's context.
func NewService(timeout time.Duration) *Service {
	limit := runtime.NumCPU()
	if limit < 2 {
		limit = 2
	}
	if limit > 8 {
		limit = 8
	}

	// counting semaphore, starts full
	semaphore := make(chan struct{}, limit)
	for i := 0; i < limit; i++ {
		semaphore <- struct{}{}
	}

	return &Service{
		semaphore: semaphore,
		timeout:   timeout,
		logf:      log.Named("git"),
	}
}

func (s *Service) debugf(format string, args ...any) {
	if s.logf != nil {
		s.logf(format, args...)
	}
}

func (s *Service) acquireSemaphore(ctx context.Context) error {
	select {
	case <-s.semaphore:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) releaseSemaphore() {
	s.semaphore <- struct{}{}
}

// run executes git with args inside cwd and returns stdout.
func (s *Service) run(ctx context.Context, cwd string, args ...string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.acquireSemaphore(ctx); err != nil {
		return "", err
	}
	defer s.releaseSemaphore()

	command := strings.Join(args, " ")
	s.debugf("run: git %s (cwd=%s)", command, cwd)

	gitPath, err := LookupPath("git")
	if err != nil {
		s.debugf("error: git not found: %v", err)
		return "", fmt.Errorf("git not found: %w", err)
	}

	// #nosec G204 -- arguments come from internal call sites, not a shell
	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Dir = cwd
	// keep status from rewriting the index, which would wake the git dir watcher
	cmd.Env = append(os.Environ(), "GIT_OPTIONAL_LOCKS=0")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr := &CommandError{
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
				Err:      err,
			}
			s.debugf("error: %v", cmdErr)
			return string(out), cmdErr
		}
		s.debugf("error: git %s: %v", command, err)
		return "", fmt.Errorf("git %s: %w", command, err)
	}

	s.debugf("ok: git %s", command)
	return string(out), nil
}

// IsRepository reports whether path is inside a git working tree. A path
// git rejects as "not a git repository" is a clean false, not an error.
func (s *Service) IsRepository(ctx context.Context, path string) (bool, error) {
	out, err := s.run(ctx, path, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && strings.Contains(strings.ToLower(cmdErr.Stderr), "not a git repository") {
			return false, nil
		}
		return false, err
	}
	return strings.TrimSpace(out) == "true", nil
}

// GitDir returns the absolute git directory for the repository at path.
func (s *Service) GitDir(ctx context.Context, path string) (string, error) {
	out, err := s.run(ctx, path, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Status returns a full snapshot of the working tree at path.
func (s *Service) Status(ctx context.Context, path string) (*models.RepoStatus, error) {
	out, err := s.run(ctx, path, "status", "--porcelain=v2", "--branch", "-z", "--untracked-files=all")
	if err != nil {
		return nil, err
	}
	return parseStatusV2(out), nil
}

// Init creates a repository at path.
func (s *Service) Init(ctx context.Context, path string) error {
	_, err := s.run(ctx, path, "init", "--quiet")
	return err
}

// Add stages file.
func (s *Service) Add(ctx context.Context, path, file string) error {
	_, err := s.run(ctx, path, "add", "--", file)
	return err
}

// Reset unstages file, keeping working-tree changes. Works on an unborn
// branch too.
func (s *Service) Reset(ctx context.Context, path, file string) error {
	_, err := s.run(ctx, path, "reset", "--quiet", "--", file)
	return err
}

// Commit records the index with message and returns the new commit id.
// With amend set the previous commit is replaced.
func (s *Service) Commit(ctx context.Context, path, message string, amend bool) (string, error) {
	args := []string{"commit", "--quiet", "-m", message}
	if amend {
		args = append(args, "--amend")
	}
	if _, err := s.run(ctx, path, args...); err != nil {
		return "", err
	}
	out, err := s.run(ctx, path, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
