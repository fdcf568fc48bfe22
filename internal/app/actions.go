package app

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazygitpanel/internal/app/commands"
	"github.com/chmouel/lazygitpanel/internal/app/screen"
	"github.com/chmouel/lazygitpanel/internal/config"
	"github.com/chmouel/lazygitpanel/internal/panel"
)

const maxWorkspaceHistory = 10

func (m *Model) registerActions() {
	commands.RegisterPanelActions(m.actions, commands.PanelHandlers{
		Toggle:          m.toggleSelected,
		StageAll:        m.panel.StageAll,
		UnstageAll:      m.panel.UnstageAll,
		OpenFile:        m.openSelectedInEditor,
		CopyPath:        m.copySelectedPath,
		Commit:          func() tea.Cmd { return m.showCommitEditor(false) },
		Amend:           func() tea.Cmd { return m.showCommitEditor(true) },
		Refresh:         m.panel.Refresh,
		InitRepository:  m.confirmInit,
		ChangeWorkspace: m.showWorkspacePrompt,
		ToggleVisible:   func() tea.Cmd { return m.panel.SetVisible(!m.panel.Visible()) },
		Help:            m.showHelp,

		HasSelection: func() bool {
			_, ok := m.selected()
			return ok
		},
		HasStaged: func() bool {
			return len(m.panel.View().Staged) > 0
		},
		HasUnstaged: func() bool {
			return len(m.panel.View().Unstaged) > 0
		},
		IsRepository: func() bool {
			state := m.panel.State()
			return state == panel.StateReady || state == panel.StateError
		},
		NotRepository: func() bool {
			return m.panel.State() == panel.StateNotRepository
		},
	})
}

func (m *Model) toggleSelected() tea.Cmd {
	row, ok := m.selected()
	if !ok {
		return nil
	}
	if row.Staged {
		return m.panel.Unstage(row.Path)
	}
	return m.panel.Stage(row.Path)
}

func (m *Model) showCommitEditor(amend bool) tea.Cmd {
	draft := m.panel.Draft().Message
	s := screen.NewCommitScreen(draft, amend, m.viewWidth(), m.viewHeight(), m.theme)
	s.OnChange = m.panel.SetDraft
	s.OnSubmit = func(value string, amend bool) tea.Cmd {
		m.panel.SetDraft(value)
		var cmd tea.Cmd
		if amend {
			cmd = m.panel.Amend()
		} else {
			cmd = m.panel.Commit()
		}
		if !m.panel.View().CommitEnabled {
			// the panel already reported it; keep the editor open
			s.ErrorMsg = "Commit message is required"
		}
		return cmd
	}
	m.screens.Push(s)
	return nil
}

func (m *Model) confirmInit() tea.Cmd {
	s := screen.NewConfirmScreen(fmt.Sprintf("Initialize a git repository in\n%s?", m.panel.Workspace()), m.theme)
	s.OnConfirm = m.panel.InitRepository
	m.screens.Push(s)
	return nil
}

func (m *Model) showWorkspacePrompt() tea.Cmd {
	s := screen.NewInputScreen("Open workspace", "/path/to/repository", m.panel.Workspace(), m.theme)
	s.History = m.history
	s.Validate = func(value string) string {
		if value == "" {
			return "Path is required"
		}
		path, err := config.ExpandPath(value)
		if err != nil {
			return err.Error()
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Sprintf("Cannot open %s: %v", value, err)
		}
		if !info.IsDir() {
			return "Not a directory: " + value
		}
		return ""
	}
	s.OnSubmit = func(value string) tea.Cmd {
		path, err := config.ExpandPath(value)
		if err == nil {
			path, err = filepath.Abs(path)
		}
		if err != nil {
			s.ErrorMsg = err.Error()
			return nil
		}
		m.rememberWorkspace(path)
		m.cursor, m.offset = 0, 0
		return m.panel.SetWorkspace(path)
	}
	m.screens.Push(s)
	return nil
}

func (m *Model) rememberWorkspace(path string) {
	history := []string{path}
	for _, p := range m.history {
		if p != path {
			history = append(history, p)
		}
	}
	if len(history) > maxWorkspaceHistory {
		history = history[:maxWorkspaceHistory]
	}
	m.history = history
}

func (m *Model) openSelectedInEditor() tea.Cmd {
	row, ok := m.selected()
	if !ok {
		return nil
	}
	filePath := filepath.Join(m.panel.Workspace(), row.Path)
	if _, err := os.Stat(filePath); err != nil {
		m.toasts.Notify(fmt.Sprintf("Cannot open %s: %v", row.Path, err), panel.SeverityError)
		return nil
	}

	cmdStr := fmt.Sprintf("%s %s", m.config.ResolveEditor(), shellQuote(row.Path))
	// #nosec G204 -- editor comes from user config or the environment
	c := exec.CommandContext(m.ctx, "sh", "-c", cmdStr)
	c.Dir = m.panel.Workspace()
	return m.execProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{path: row.Path, err: err}
	})
}

func (m *Model) copySelectedPath() tea.Cmd {
	row, ok := m.selected()
	if !ok {
		return nil
	}
	path := filepath.Join(m.panel.Workspace(), row.Path)
	if err := m.writeClipboard(path); err != nil {
		m.toasts.Notify("Failed to copy path: "+err.Error(), panel.SeverityError)
		return nil
	}
	m.toasts.Notify("Copied: "+row.Path, panel.SeverityInfo)
	return nil
}

func (m *Model) showPalette() {
	items := commands.BuildPaletteItems(m.actions.Actions())
	paletteItems := make([]screen.PaletteItem, 0, len(items))
	for _, item := range items {
		paletteItems = append(paletteItems, screen.PaletteItem{
			ID:          item.ID,
			Label:       item.Label,
			Description: item.Description,
			Shortcut:    item.Shortcut,
			IsSection:   item.IsSection,
		})
	}
	s := screen.NewPaletteScreen(paletteItems, m.viewWidth(), m.viewHeight(), m.theme)
	s.OnSelect = m.actions.Execute
	m.screens.Push(s)
}

func (m *Model) showHelp() tea.Cmd {
	entry := func(b key.Binding) screen.HelpEntry {
		h := b.Help()
		return screen.HelpEntry{Keys: h.Key, Description: h.Desc}
	}
	k := m.keys
	sections := []screen.HelpSection{
		{Title: "Navigation", Entries: []screen.HelpEntry{entry(k.Down), entry(k.Palette), entry(k.Help), entry(k.Quit)}},
		{Title: "Changes", Entries: []screen.HelpEntry{entry(k.Toggle), entry(k.StageAll), entry(k.UnstageAll), entry(k.Edit), entry(k.Yank)}},
		{Title: "Commit", Entries: []screen.HelpEntry{
			entry(k.Commit),
			entry(k.Amend),
			{Keys: "ctrl+s", Description: "submit message (in editor)"},
			{Keys: "esc", Description: "close editor, keep draft"},
		}},
		{Title: "Repository", Entries: []screen.HelpEntry{entry(k.Refresh), entry(k.Init), entry(k.Workspace), entry(k.Visible)}},
	}
	m.screens.Push(screen.NewHelpScreen(sections, m.viewWidth(), m.viewHeight(), m.theme))
	return nil
}

// shellQuote quotes a string for safe use in shell commands.
func shellQuote(input string) string {
	if input == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(input, "'", "'\"'\"'") + "'"
}
