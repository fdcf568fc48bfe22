package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazygitpanel/internal/theme"
)

// HelpEntry is one key binding shown on the help screen.
type HelpEntry struct {
	Keys        string
	Description string
}

// HelpSection groups entries under a title.
type HelpSection struct {
	Title   string
	Entries []HelpEntry
}

// HelpScreen lists key bindings in a scrollable box.
type HelpScreen struct {
	Viewport viewport.Model
	Thm      *theme.Theme
	width    int
}

// NewHelpScreen renders sections into a viewport sized to the terminal.
func NewHelpScreen(sections []HelpSection, maxWidth, maxHeight int, thm *theme.Theme) *HelpScreen {
	width := clampInt(maxWidth*2/3, 50, 90)
	height := clampInt(maxHeight-6, 8, 40)

	titleStyle := lipgloss.NewStyle().Foreground(thm.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(thm.Cyan).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(thm.TextFg)

	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(titleStyle.Render(section.Title))
		b.WriteString("\n")
		for _, entry := range section.Entries {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(entry.Keys))
			b.WriteString(descStyle.Render(entry.Description))
			b.WriteString("\n")
		}
	}

	vp := viewport.New(width-4, height)
	vp.SetContent(strings.TrimRight(b.String(), "\n"))

	return &HelpScreen{Viewport: vp, Thm: thm, width: width}
}

// Type returns TypeHelp.
func (s *HelpScreen) Type() Type {
	return TypeHelp
}

// Update scrolls or closes.
func (s *HelpScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyEsc, keyQ, keyCtrlC, "?":
		return nil, nil
	case "j", "down":
		s.Viewport.ScrollDown(1)
		return s, nil
	case "k", "up":
		s.Viewport.ScrollUp(1)
		return s, nil
	}
	var cmd tea.Cmd
	s.Viewport, cmd = s.Viewport.Update(msg)
	return s, cmd
}

// View renders the help box.
func (s *HelpScreen) View() string {
	footer := lipgloss.NewStyle().
		Foreground(s.Thm.MutedFg).
		Width(s.width - 4).
		Align(lipgloss.Center).
		Render("j/k scroll • Esc close")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(0, 1).
		Width(s.width).
		Render(s.Viewport.View() + "\n\n" + footer)
}
