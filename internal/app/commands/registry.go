// Package commands holds the panel's action registry shared by key
// bindings and the command palette.
package commands

import tea "github.com/charmbracelet/bubbletea"

const (
	sectionChanges    = "Changes"
	sectionCommit     = "Commit"
	sectionRepository = "Repository"
	sectionView       = "View"
)

// Action ids.
const (
	ActionToggle        = "toggle-stage"
	ActionStageAll      = "stage-all"
	ActionUnstageAll    = "unstage-all"
	ActionOpenFile      = "open-file"
	ActionCopyPath      = "copy-path"
	ActionCommit        = "commit"
	ActionAmend         = "amend"
	ActionRefresh       = "refresh"
	ActionInit          = "init"
	ActionWorkspace     = "workspace"
	ActionToggleVisible = "toggle-visible"
	ActionHelp          = "help"
)

// Action is a named panel operation.
type Action struct {
	ID          string
	Label       string
	Description string
	Section     string
	Shortcut    string
	Handler     func() tea.Cmd
	// Available gates the action; nil means always available.
	Available func() bool
}

// Registry stores actions in registration order.
type Registry struct {
	actions []Action
	byID    map[string]Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Action)}
}

// Register adds actions.
func (r *Registry) Register(actions ...Action) {
	for _, action := range actions {
		r.actions = append(r.actions, action)
		if action.ID != "" {
			r.byID[action.ID] = action
		}
	}
}

// Actions returns every registered action in order.
func (r *Registry) Actions() []Action {
	return r.actions
}

// Lookup returns the action for id.
func (r *Registry) Lookup(id string) (Action, bool) {
	action, ok := r.byID[id]
	return action, ok
}

// IsAvailable reports whether id exists and may run now.
func (r *Registry) IsAvailable(id string) bool {
	action, ok := r.byID[id]
	if !ok || action.Handler == nil {
		return false
	}
	return action.Available == nil || action.Available()
}

// Execute runs id when it is available.
func (r *Registry) Execute(id string) tea.Cmd {
	if !r.IsAvailable(id) {
		return nil
	}
	return r.byID[id].Handler()
}

// PanelHandlers are the callbacks behind the panel actions.
type PanelHandlers struct {
	Toggle          func() tea.Cmd
	StageAll        func() tea.Cmd
	UnstageAll      func() tea.Cmd
	OpenFile        func() tea.Cmd
	CopyPath        func() tea.Cmd
	Commit          func() tea.Cmd
	Amend           func() tea.Cmd
	Refresh         func() tea.Cmd
	InitRepository  func() tea.Cmd
	ChangeWorkspace func() tea.Cmd
	ToggleVisible   func() tea.Cmd
	Help            func() tea.Cmd

	HasSelection  func() bool
	HasStaged     func() bool
	HasUnstaged   func() bool
	IsRepository  func() bool
	NotRepository func() bool
}

// RegisterPanelActions registers the full panel action set.
func RegisterPanelActions(r *Registry, h PanelHandlers) {
	r.Register(
		Action{ID: ActionToggle, Label: "Stage/unstage file", Description: "Stage or unstage the selected file", Section: sectionChanges, Shortcut: "space", Handler: h.Toggle, Available: h.HasSelection},
		Action{ID: ActionStageAll, Label: "Stage all", Description: "Stage every unstaged file", Section: sectionChanges, Shortcut: "a", Handler: h.StageAll, Available: h.HasUnstaged},
		Action{ID: ActionUnstageAll, Label: "Unstage all", Description: "Unstage every staged file", Section: sectionChanges, Shortcut: "u", Handler: h.UnstageAll, Available: h.HasStaged},
		Action{ID: ActionOpenFile, Label: "Open file", Description: "Open the selected file in the editor", Section: sectionChanges, Shortcut: "e", Handler: h.OpenFile, Available: h.HasSelection},
		Action{ID: ActionCopyPath, Label: "Copy path", Description: "Copy the selected path to the clipboard", Section: sectionChanges, Shortcut: "y", Handler: h.CopyPath, Available: h.HasSelection},
	)
	r.Register(
		Action{ID: ActionCommit, Label: "Commit", Description: "Commit staged changes", Section: sectionCommit, Shortcut: "c", Handler: h.Commit, Available: h.HasStaged},
		Action{ID: ActionAmend, Label: "Amend commit", Description: "Amend the last commit", Section: sectionCommit, Shortcut: "C", Handler: h.Amend, Available: h.IsRepository},
	)
	r.Register(
		Action{ID: ActionRefresh, Label: "Refresh", Description: "Reload repository status", Section: sectionRepository, Shortcut: "r", Handler: h.Refresh},
		Action{ID: ActionInit, Label: "Initialize repository", Description: "Run git init in the workspace", Section: sectionRepository, Shortcut: "I", Handler: h.InitRepository, Available: h.NotRepository},
		Action{ID: ActionWorkspace, Label: "Change workspace", Description: "Open another directory", Section: sectionRepository, Shortcut: "w", Handler: h.ChangeWorkspace},
	)
	r.Register(
		Action{ID: ActionToggleVisible, Label: "Toggle panel", Description: "Show or hide the panel", Section: sectionView, Shortcut: "v", Handler: h.ToggleVisible},
		Action{ID: ActionHelp, Label: "Help", Description: "Show key bindings", Section: sectionView, Shortcut: "?", Handler: h.Help},
	)
}
