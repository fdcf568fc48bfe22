package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazygitpanel/internal/theme"
)

// CommitScreen edits the commit message. Every edit is reported through
// OnChange so the draft outlives the overlay.
type CommitScreen struct {
	Amend    bool
	Input    textarea.Model
	ErrorMsg string
	Thm      *theme.Theme

	OnChange func(value string)
	OnSubmit func(value string, amend bool) tea.Cmd
	OnCancel func() tea.Cmd

	boxWidth  int
	boxHeight int
}

// NewCommitScreen creates an editor sized relative to the terminal.
func NewCommitScreen(draft string, amend bool, maxWidth, maxHeight int, thm *theme.Theme) *CommitScreen {
	width, height := 80, 16
	if maxWidth > 0 {
		width = clampInt(maxWidth*3/4, 50, 100)
	}
	if maxHeight > 0 {
		height = clampInt(maxHeight*2/3, 12, 28)
	}

	ta := textarea.New()
	ta.Placeholder = "Message (Ctrl+S to commit)"
	ta.SetValue(draft)
	ta.Prompt = ""
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(width - 8)
	ta.SetHeight(clampInt(height-9, 3, 20))
	ta.Focus()

	focused, _ := textarea.DefaultStyles()
	focused.Base = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(thm.Border).
		Padding(0, 1)
	focused.Text = lipgloss.NewStyle().Foreground(thm.TextFg)
	focused.Placeholder = lipgloss.NewStyle().Foreground(thm.MutedFg).Italic(true)
	focused.CursorLine = lipgloss.NewStyle().Foreground(thm.TextFg)
	blurred := focused
	blurred.Base = blurred.Base.BorderForeground(thm.BorderDim)
	ta.FocusedStyle = focused
	ta.BlurredStyle = blurred

	return &CommitScreen{
		Amend:     amend,
		Input:     ta,
		Thm:       thm,
		boxWidth:  width,
		boxHeight: height,
	}
}

// Type returns TypeCommit.
func (s *CommitScreen) Type() Type {
	return TypeCommit
}

// Update submits on Ctrl+S, closes on Esc and edits otherwise. Enter inserts
// a newline.
func (s *CommitScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		s.ErrorMsg = ""
		var cmd tea.Cmd
		if s.OnSubmit != nil {
			cmd = s.OnSubmit(s.Input.Value(), s.Amend)
			if s.ErrorMsg != "" {
				return s, cmd
			}
		}
		return nil, cmd
	case keyEsc, keyCtrlC:
		return nil, call(s.OnCancel)
	}

	before := s.Input.Value()
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if after := s.Input.Value(); after != before {
		s.ErrorMsg = ""
		if s.OnChange != nil {
			s.OnChange(after)
		}
	}
	return s, cmd
}

// View renders the editor.
func (s *CommitScreen) View() string {
	width := s.boxWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(1, 2).
		Width(width).
		Height(s.boxHeight)

	title := "Commit staged changes"
	if s.Amend {
		title = "Amend last commit"
	}
	titleStyle := lipgloss.NewStyle().
		Foreground(s.Thm.Accent).
		Bold(true).
		Width(width - 6).
		Align(lipgloss.Center)

	lines := []string{titleStyle.Render(title), s.Input.View()}
	if s.ErrorMsg != "" {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(s.Thm.ErrorFg).
			Width(width-6).
			Align(lipgloss.Center).
			Render(s.ErrorMsg))
	}
	lines = append(lines, lipgloss.NewStyle().
		Foreground(s.Thm.MutedFg).
		Width(width-6).
		Align(lipgloss.Center).
		Render("Ctrl+S commit • Esc keep draft • Enter newline"))

	return boxStyle.Render(strings.Join(lines, "\n\n"))
}
