package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/chmouel/lazygitpanel/internal/app/commands"
)

type keyMap struct {
	Up   key.Binding
	Down key.Binding

	Toggle     key.Binding
	StageAll   key.Binding
	UnstageAll key.Binding
	Edit       key.Binding
	Yank       key.Binding

	Commit key.Binding
	Amend  key.Binding

	Refresh   key.Binding
	Init      key.Binding
	Workspace key.Binding

	Visible key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("j/k", "navigate"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/k", "navigate"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "stage/unstage"),
		),
		StageAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "stage all"),
		),
		UnstageAll: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unstage all"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "open in editor"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy path"),
		),
		Commit: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "commit"),
		),
		Amend: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "amend"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Init: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "git init"),
		),
		Workspace: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "workspace"),
		),
		Visible: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "toggle panel"),
		),
		Palette: key.NewBinding(
			key.WithKeys("ctrl+p", ":"),
			key.WithHelp("ctrl+p", "palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// actionBindings maps bindings to registry action ids. Keys and the palette
// share the registry so availability rules apply to both.
func (k keyMap) actionBindings() []actionBinding {
	return []actionBinding{
		{k.Toggle, commands.ActionToggle},
		{k.StageAll, commands.ActionStageAll},
		{k.UnstageAll, commands.ActionUnstageAll},
		{k.Edit, commands.ActionOpenFile},
		{k.Yank, commands.ActionCopyPath},
		{k.Commit, commands.ActionCommit},
		{k.Amend, commands.ActionAmend},
		{k.Refresh, commands.ActionRefresh},
		{k.Init, commands.ActionInit},
		{k.Workspace, commands.ActionWorkspace},
		{k.Visible, commands.ActionToggleVisible},
		{k.Help, commands.ActionHelp},
	}
}

type actionBinding struct {
	binding key.Binding
	id      string
}
