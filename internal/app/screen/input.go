package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazygitpanel/internal/theme"
)

// InputScreen is a single-line prompt with validation and up/down history.
type InputScreen struct {
	Prompt   string
	Input    textinput.Model
	ErrorMsg string
	Thm      *theme.Theme

	// Validate returns an error message, or "" when value is acceptable.
	Validate func(value string) string
	OnSubmit func(value string) tea.Cmd
	OnCancel func() tea.Cmd

	History       []string
	historyIndex  int
	originalInput string

	boxWidth int
}

// NewInputScreen creates a focused prompt prefilled with value.
func NewInputScreen(prompt, placeholder, value string, thm *theme.Theme) *InputScreen {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	ti.CharLimit = 4096
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(thm.TextFg)
	ti.Width = 60

	return &InputScreen{
		Prompt:       prompt,
		Input:        ti,
		Thm:          thm,
		historyIndex: -1,
		boxWidth:     70,
	}
}

// Type returns TypeInput.
func (s *InputScreen) Type() Type {
	return TypeInput
}

// Update handles submit, cancel and history navigation; other keys edit.
func (s *InputScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		value := strings.TrimSpace(s.Input.Value())
		if s.Validate != nil {
			if errMsg := strings.TrimSpace(s.Validate(value)); errMsg != "" {
				s.ErrorMsg = errMsg
				return s, nil
			}
		}
		s.ErrorMsg = ""
		var cmd tea.Cmd
		if s.OnSubmit != nil {
			cmd = s.OnSubmit(value)
			if s.ErrorMsg != "" {
				return s, cmd
			}
		}
		return nil, cmd

	case keyEsc, keyCtrlC:
		return nil, call(s.OnCancel)

	case "up":
		if len(s.History) > 0 {
			if s.historyIndex == -1 {
				s.originalInput = s.Input.Value()
			}
			if s.historyIndex < len(s.History)-1 {
				s.historyIndex++
			}
			s.Input.SetValue(s.History[s.historyIndex])
			s.Input.CursorEnd()
			return s, nil
		}

	case "down":
		if s.historyIndex >= 0 {
			s.historyIndex--
			if s.historyIndex == -1 {
				s.Input.SetValue(s.originalInput)
			} else {
				s.Input.SetValue(s.History[s.historyIndex])
			}
			s.Input.CursorEnd()
			return s, nil
		}
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeyBackspace || msg.Type == tea.KeyDelete {
		s.historyIndex = -1
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// View renders the prompt box.
func (s *InputScreen) View() string {
	width := s.boxWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(1, 2).
		Width(width)

	promptStyle := lipgloss.NewStyle().
		Foreground(s.Thm.Accent).
		Bold(true).
		Width(width - 6).
		Align(lipgloss.Center)

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(s.Thm.Border).
		Padding(0, 1).
		Width(width - 6)

	footerStyle := lipgloss.NewStyle().
		Foreground(s.Thm.MutedFg).
		Width(width - 6).
		Align(lipgloss.Center)

	lines := []string{
		promptStyle.Render(s.Prompt),
		inputStyle.Render(s.Input.View()),
	}
	if s.ErrorMsg != "" {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(s.Thm.ErrorFg).
			Width(width-6).
			Align(lipgloss.Center).
			Render(s.ErrorMsg))
	}

	footer := "Enter confirm • Esc cancel"
	if len(s.History) > 0 {
		footer = "↑↓ history • " + footer
	}
	lines = append(lines, footerStyle.Render(footer))

	return boxStyle.Render(strings.Join(lines, "\n\n"))
}
