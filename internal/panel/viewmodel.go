package panel

import (
	"strconv"
	"strings"

	"github.com/chmouel/lazygitpanel/internal/models"
)

// ViewKind selects which body the presentation layer draws.
type ViewKind int

const (
	ViewNoWorkspace ViewKind = iota
	ViewNotRepository
	ViewLoading
	ViewError
	ViewReady
)

func (k ViewKind) String() string {
	switch k {
	case ViewNoWorkspace:
		return "no-workspace"
	case ViewNotRepository:
		return "not-repository"
	case ViewLoading:
		return "loading"
	case ViewError:
		return "error"
	case ViewReady:
		return "ready"
	default:
		return "unknown"
	}
}

// FileView is one row of a file list.
type FileView struct {
	Path   string
	Name   string
	Dir    string
	Code   string
	Class  string
	Status models.FileStatus
	Staged bool
}

// ViewModel is what the presentation layer renders.
type ViewModel struct {
	Kind      ViewKind
	Workspace string
	ErrorText string
	Busy      bool

	Branch   string
	Detached bool
	Ahead    int
	Behind   int
	Clean    bool
	Staged   []FileView
	Unstaged []FileView

	// ShowCommit is set when there is something staged to commit.
	ShowCommit bool
	// CommitEnabled is set when the trimmed draft message is non-empty.
	CommitEnabled bool
	Draft         string
}

// Project maps a snapshot to a view model. It is pure: equal snapshots give
// equal view models and nothing is called on the backend.
func Project(s Snapshot) ViewModel {
	vm := ViewModel{
		Workspace:     s.Workspace,
		Busy:          s.Busy,
		Draft:         s.Draft.Message,
		CommitEnabled: strings.TrimSpace(s.Draft.Message) != "",
	}

	switch s.State {
	case StateNoWorkspace:
		vm.Kind = ViewNoWorkspace
	case StateNotRepository:
		vm.Kind = ViewNotRepository
	case StateError:
		vm.Kind = ViewError
		if s.Err != nil {
			vm.ErrorText = s.Err.Error()
		}
	case StateReady:
		if s.Status == nil {
			vm.Kind = ViewLoading
			break
		}
		vm.Kind = ViewReady
		projectStatus(&vm, s.Status)
	default:
		vm.Kind = ViewLoading
	}
	return vm
}

func projectStatus(vm *ViewModel, st *models.RepoStatus) {
	vm.Branch = st.Branch
	vm.Detached = st.Branch == ""
	vm.Ahead = st.Ahead
	vm.Behind = st.Behind
	vm.Clean = st.IsClean

	for _, f := range st.Files {
		row := FileView{
			Path:   f.Path,
			Name:   f.Name(),
			Dir:    f.Dir(),
			Code:   f.Status.Code(),
			Class:  f.Status.String(),
			Status: f.Status,
			Staged: f.Staged,
		}
		if f.Staged {
			vm.Staged = append(vm.Staged, row)
		} else {
			vm.Unstaged = append(vm.Unstaged, row)
		}
	}
	vm.ShowCommit = len(vm.Staged) > 0
}

// Lines renders the view model as plain text, one line per element.
func (vm ViewModel) Lines() []string {
	switch vm.Kind {
	case ViewNoWorkspace:
		return []string{"No workspace open"}
	case ViewNotRepository:
		return []string{"Not a git repository: " + vm.Workspace}
	case ViewLoading:
		return []string{"Loading..."}
	case ViewError:
		return []string{"Error: " + vm.ErrorText}
	}

	branch := vm.Branch
	if vm.Detached {
		branch = "HEAD (detached)"
	}
	lines := []string{"Branch: " + branch}
	if vm.Ahead > 0 || vm.Behind > 0 {
		lines = append(lines, formatAheadBehind(vm.Ahead, vm.Behind))
	}
	if vm.Clean {
		return append(lines, "Working tree clean")
	}
	if len(vm.Staged) > 0 {
		lines = append(lines, "Staged Changes:")
		for _, f := range vm.Staged {
			lines = append(lines, "  "+f.Code+" "+f.Path)
		}
	}
	if len(vm.Unstaged) > 0 {
		lines = append(lines, "Changes:")
		for _, f := range vm.Unstaged {
			lines = append(lines, "  "+f.Code+" "+f.Path)
		}
	}
	return lines
}

func formatAheadBehind(ahead, behind int) string {
	var parts []string
	if ahead > 0 {
		parts = append(parts, "↑"+strconv.Itoa(ahead))
	}
	if behind > 0 {
		parts = append(parts, "↓"+strconv.Itoa(behind))
	}
	return strings.Join(parts, " ")
}
