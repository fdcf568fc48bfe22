package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazygitpanel/internal/theme"
)

// PaletteItem is a row of the command palette.
type PaletteItem struct {
	ID          string
	Label       string
	Description string
	Shortcut    string
	IsSection   bool
}

// PaletteScreen is the fuzzy command picker.
type PaletteScreen struct {
	Items    []PaletteItem
	Filtered []PaletteItem
	Filter   textinput.Model
	Cursor   int
	Offset   int
	Width    int
	Height   int
	Thm      *theme.Theme

	OnSelect func(id string) tea.Cmd
	OnCancel func() tea.Cmd
}

// NewPaletteScreen builds a palette over items.
func NewPaletteScreen(items []PaletteItem, maxWidth, maxHeight int, thm *theme.Theme) *PaletteScreen {
	width := clampInt(maxWidth*4/5, 50, 100)

	ti := textinput.New()
	ti.Placeholder = "Type a command..."
	ti.CharLimit = 100
	ti.Prompt = "> "
	ti.Focus()
	ti.Width = width - 4

	s := &PaletteScreen{
		Items:    items,
		Filtered: items,
		Filter:   ti,
		Width:    width,
		Height:   maxHeight,
		Thm:      thm,
	}
	s.Cursor = s.nextSelectable(0, 1)
	return s
}

// Type returns TypePalette.
func (s *PaletteScreen) Type() Type {
	return TypePalette
}

func (s *PaletteScreen) visibleRows() int {
	if s.Height <= 0 {
		return 12
	}
	return clampInt(s.Height-6, 4, 20)
}

// Update moves the cursor, selects, or edits the filter.
func (s *PaletteScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyEsc, keyCtrlC:
		return nil, call(s.OnCancel)
	case keyEnter:
		if s.Cursor >= 0 && s.Cursor < len(s.Filtered) && !s.Filtered[s.Cursor].IsSection {
			id := s.Filtered[s.Cursor].ID
			if s.OnSelect != nil {
				return nil, s.OnSelect(id)
			}
		}
		return nil, nil
	case "up", "ctrl+k", "ctrl+p":
		s.move(-1)
		return s, nil
	case "down", "ctrl+j", "ctrl+n":
		s.move(1)
		return s, nil
	}

	var cmd tea.Cmd
	s.Filter, cmd = s.Filter.Update(msg)
	s.applyFilter()
	return s, cmd
}

func (s *PaletteScreen) move(delta int) {
	next := s.nextSelectable(s.Cursor+delta, delta)
	if next < 0 {
		return
	}
	s.Cursor = next
	rows := s.visibleRows()
	if s.Cursor < s.Offset {
		s.Offset = s.Cursor
	}
	if s.Cursor >= s.Offset+rows {
		s.Offset = s.Cursor - rows + 1
	}
}

// nextSelectable walks from i in direction dir to the first non-section
// row, or returns -1.
func (s *PaletteScreen) nextSelectable(i, dir int) int {
	for ; i >= 0 && i < len(s.Filtered); i += dir {
		if !s.Filtered[i].IsSection {
			return i
		}
	}
	return -1
}

// applyFilter keeps items whose label and description contain the query
// characters in order. Sections stay only when something below them matches.
func (s *PaletteScreen) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(s.Filter.Value()))
	if query == "" {
		s.Filtered = s.Items
	} else {
		s.Filtered = nil
		var section *PaletteItem
		for i := range s.Items {
			item := s.Items[i]
			if item.IsSection {
				section = &s.Items[i]
				continue
			}
			if !fuzzyMatch(strings.ToLower(item.Label+" "+item.Description), query) {
				continue
			}
			if section != nil {
				s.Filtered = append(s.Filtered, *section)
				section = nil
			}
			s.Filtered = append(s.Filtered, item)
		}
	}
	s.Offset = 0
	s.Cursor = s.nextSelectable(0, 1)
}

func fuzzyMatch(haystack, query string) bool {
	pos := 0
	for _, ch := range query {
		idx := strings.IndexRune(haystack[pos:], ch)
		if idx == -1 {
			return false
		}
		pos += idx + len(string(ch))
	}
	return true
}

// View renders the filter and the visible rows.
func (s *PaletteScreen) View() string {
	width := s.Width
	inner := width - 2

	row := lipgloss.NewStyle().Padding(0, 1).Width(inner)
	selected := row.Background(s.Thm.Accent).Foreground(s.Thm.AccentFg).Bold(true)
	section := row.Foreground(s.Thm.Accent).Bold(true)
	muted := lipgloss.NewStyle().Foreground(s.Thm.MutedFg)

	var rows []string
	end := min(len(s.Filtered), s.Offset+s.visibleRows())
	for i := s.Offset; i < end; i++ {
		item := s.Filtered[i]
		if item.IsSection {
			rows = append(rows, section.Render("── "+item.Label+" ──"))
			continue
		}
		label := fmt.Sprintf("%-4s %-28s", item.Shortcut, item.Label)
		if i == s.Cursor {
			rows = append(rows, selected.Render(label+" "+item.Description))
		} else {
			rows = append(rows, row.Render(label+" "+muted.Render(item.Description)))
		}
	}
	if len(s.Filtered) == 0 {
		rows = append(rows, row.Foreground(s.Thm.MutedFg).Italic(true).Render("No commands match your filter."))
	}

	separator := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(s.Thm.BorderDim).
		Width(inner).
		Render("")

	footer := lipgloss.NewStyle().
		Foreground(s.Thm.MutedFg).
		Align(lipgloss.Right).
		Width(inner).
		Render("↑↓ move • Enter run • Esc close")

	content := lipgloss.JoinVertical(lipgloss.Left,
		row.Foreground(s.Thm.TextFg).Render(s.Filter.View()),
		separator,
		strings.Join(rows, "\n"),
		footer,
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Width(width).
		Render(content)
}
