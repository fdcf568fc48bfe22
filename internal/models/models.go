// Package models defines the data objects shared across lazygitpanel packages.
package models

import (
	"path"
	"strings"
)

// FileStatus is the kind of change recorded for a path.
type FileStatus int

// File status values, in git's own vocabulary.
const (
	StatusModified FileStatus = iota
	StatusAdded
	StatusDeleted
	StatusRenamed
	StatusCopied
	StatusUnmerged
	StatusUntracked
)

// Code returns the one-letter status shown next to a file.
func (s FileStatus) Code() string {
	switch s {
	case StatusModified:
		return "M"
	case StatusAdded:
		return "A"
	case StatusDeleted:
		return "D"
	case StatusRenamed:
		return "R"
	case StatusCopied:
		return "C"
	case StatusUnmerged:
		return "U"
	case StatusUntracked:
		return "?"
	default:
		return " "
	}
}

// String returns the lower-case status name, also used as a style class.
func (s FileStatus) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusCopied:
		return "copied"
	case StatusUnmerged:
		return "unmerged"
	case StatusUntracked:
		return "untracked"
	default:
		return "unknown"
	}
}

// ParseStatusCode maps a one-letter code (M, A, D, R, C, U, ?) to a
// FileStatus.
func ParseStatusCode(code byte) (FileStatus, bool) {
	switch code {
	case 'M', 'T':
		return StatusModified, true
	case 'A':
		return StatusAdded, true
	case 'D':
		return StatusDeleted, true
	case 'R':
		return StatusRenamed, true
	case 'C':
		return StatusCopied, true
	case 'U':
		return StatusUnmerged, true
	case '?':
		return StatusUntracked, true
	default:
		return StatusModified, false
	}
}

// FileEntry is one changed path in either the staged or unstaged partition.
// A path with both index and working-tree changes appears twice.
type FileEntry struct {
	Path   string // repo-relative, forward slashes
	Status FileStatus
	Staged bool
}

// Name returns the last path element.
func (f FileEntry) Name() string {
	return path.Base(f.Path)
}

// Dir returns the directory part of Path, or "" for top-level files.
func (f FileEntry) Dir() string {
	idx := strings.LastIndex(f.Path, "/")
	if idx < 0 {
		return ""
	}
	return f.Path[:idx]
}

// RepoStatus is a full snapshot of a repository's working-tree state.
type RepoStatus struct {
	Branch  string // empty when HEAD is detached or unborn
	Ahead   int
	Behind  int
	IsClean bool
	Files   []FileEntry
}

// Staged returns the staged partition, preserving order.
func (r *RepoStatus) Staged() []FileEntry {
	return r.partition(true)
}

// Unstaged returns the unstaged partition (including untracked files),
// preserving order.
func (r *RepoStatus) Unstaged() []FileEntry {
	return r.partition(false)
}

func (r *RepoStatus) partition(staged bool) []FileEntry {
	if r == nil {
		return nil
	}
	var out []FileEntry
	for _, f := range r.Files {
		if f.Staged == staged {
			out = append(out, f)
		}
	}
	return out
}

// Clone returns a deep copy so callers can hand snapshots across goroutines.
func (r *RepoStatus) Clone() *RepoStatus {
	if r == nil {
		return nil
	}
	c := *r
	c.Files = append([]FileEntry(nil), r.Files...)
	return &c
}
