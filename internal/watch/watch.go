// Package watch reports activity in a repository's git directory.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is the minimum spacing between refreshes caused by events.
const Debounce = 600 * time.Millisecond

// GitDirResolver resolves the git directory of a workspace.
type GitDirResolver interface {
	GitDir(ctx context.Context, path string) (string, error)
}

// Watcher watches a git directory plus its refs and logs trees. It can be
// stopped and started again for another workspace.
type Watcher struct {
	session     *session
	waiting     bool
	lastRefresh time.Time
	git         GitDirResolver
	logf        func(string, ...any)
}

// session is one Start..Stop lifetime. The background goroutine only
// touches its own session.
type session struct {
	gitDir string
	roots  []string
	events chan struct{}
	done   chan struct{}
	mu     sync.Mutex
	paths  map[string]struct{}
	fs     *fsnotify.Watcher
	logf   func(string, ...any)
}

// New creates a Watcher. Nothing is watched until Start.
func New(git GitDirResolver, logf func(string, ...any)) *Watcher {
	return &Watcher{
		git:  git,
		logf: logf,
	}
}

// Start watches the git directory of workspace. It returns false without an
// error when the workspace has no git directory or the watcher is running.
func (w *Watcher) Start(ctx context.Context, workspace string) (bool, error) {
	if w.session != nil || workspace == "" || w.git == nil {
		return false, nil
	}
	gitDir, err := w.git.GitDir(ctx, workspace)
	if err != nil || gitDir == "" {
		w.debugf("unable to resolve git dir for %s: %v", workspace, err)
		return false, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	s := &session{
		gitDir: gitDir,
		roots: []string{
			filepath.Join(gitDir, "refs"),
			filepath.Join(gitDir, "logs"),
		},
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
		paths:  make(map[string]struct{}),
		fs:     watcher,
		logf:   w.debugf,
	}
	s.addWatchDir(gitDir)
	for _, root := range s.roots {
		s.addWatchTree(root)
	}
	w.session = s
	w.waiting = false
	w.debugf("watching %s", gitDir)

	go s.run()
	return true, nil
}

// Stop stops watching. The event channel is closed once the background
// goroutine exits.
func (w *Watcher) Stop() {
	if w.session == nil {
		return
	}
	close(w.session.done)
	_ = w.session.fs.Close()
	w.session = nil
	w.waiting = false
}

// Started reports whether the watcher is running.
func (w *Watcher) Started() bool {
	return w.session != nil
}

// GitDir returns the watched directory, or "" when stopped.
func (w *Watcher) GitDir() string {
	if w.session == nil {
		return ""
	}
	return w.session.gitDir
}

// NextEvent returns the event channel unless a receiver is already waiting.
func (w *Watcher) NextEvent() <-chan struct{} {
	if w.session == nil || w.waiting {
		return nil
	}
	w.waiting = true
	return w.session.events
}

// ResetWaiting clears the waiting flag after an event is processed.
func (w *Watcher) ResetWaiting() {
	w.waiting = false
}

// ShouldRefresh applies the debounce window.
func (w *Watcher) ShouldRefresh(now time.Time) bool {
	if !w.lastRefresh.IsZero() && now.Sub(w.lastRefresh) < Debounce {
		return false
	}
	w.lastRefresh = now
	return true
}

func (w *Watcher) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}

func (s *session) run() {
	defer close(s.events)
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// lock files come and go around every write
			if strings.HasSuffix(event.Name, ".lock") {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				s.maybeWatchNewDir(event.Name)
			}
			s.signal()
		case err, ok := <-s.fs.Errors:
			if !ok {
				return
			}
			s.logf("watcher error: %v", err)
		}
	}
}

func (s *session) signal() {
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.events <- struct{}{}:
	default:
	}
}

func (s *session) isUnderRoot(path string) bool {
	if path == "" {
		return false
	}
	for _, root := range s.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (s *session) maybeWatchNewDir(path string) {
	if !s.isUnderRoot(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	s.addWatchDir(path)
}

func (s *session) addWatchDir(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.paths[path]; ok {
		return
	}
	if err := s.fs.Add(path); err != nil {
		s.logf("watch add failed for %s: %v", path, err)
		return
	}
	s.paths[path] = struct{}{}
}

func (s *session) addWatchTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		s.addWatchDir(path)
		return nil
	})
}
