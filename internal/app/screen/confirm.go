package screen

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazygitpanel/internal/theme"
)

// ConfirmScreen asks a yes/no question.
type ConfirmScreen struct {
	Message  string
	Selected int // 0 confirm, 1 cancel
	Thm      *theme.Theme

	OnConfirm func() tea.Cmd
	OnCancel  func() tea.Cmd
}

// NewConfirmScreen creates a confirm screen with Confirm focused.
func NewConfirmScreen(message string, thm *theme.Theme) *ConfirmScreen {
	return &ConfirmScreen{Message: message, Thm: thm}
}

// Type returns TypeConfirm.
func (s *ConfirmScreen) Type() Type {
	return TypeConfirm
}

// Update handles y/n, enter on the focused button, and button switching.
func (s *ConfirmScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyTab, keyShiftTab, "left", "right", "h", "l":
		s.Selected = 1 - s.Selected
		return s, nil
	case "y", "Y":
		return nil, call(s.OnConfirm)
	case "n", "N", keyEsc, keyQ, keyCtrlC:
		return nil, call(s.OnCancel)
	case keyEnter:
		if s.Selected == 0 {
			return nil, call(s.OnConfirm)
		}
		return nil, call(s.OnCancel)
	}
	return s, nil
}

// View renders the question and both buttons.
func (s *ConfirmScreen) View() string {
	width := 56

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(1, 2).
		Width(width)

	messageStyle := lipgloss.NewStyle().
		Width(width - 6).
		Align(lipgloss.Center).
		Foreground(s.Thm.TextFg)

	button := lipgloss.NewStyle().
		Width((width - 8) / 2).
		Align(lipgloss.Center)
	focused := button.Foreground(s.Thm.AccentFg).Background(s.Thm.Accent).Bold(true)
	unfocused := button.Foreground(s.Thm.MutedFg).Background(s.Thm.BorderDim)

	confirm, cancel := focused, unfocused
	if s.Selected == 1 {
		confirm, cancel = unfocused, focused
	}

	return boxStyle.Render(fmt.Sprintf("%s\n\n%s  %s",
		messageStyle.Render(s.Message),
		confirm.Render("[Yes]"),
		cancel.Render("[No]"),
	))
}

func call(fn func() tea.Cmd) tea.Cmd {
	if fn == nil {
		return nil
	}
	return fn()
}
