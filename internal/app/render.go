package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/chmouel/lazygitpanel/internal/panel"
)

// View renders the panel, toasts and the active overlay.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	width, height := m.viewWidth(), m.viewHeight()
	vm := m.panel.View()

	header := m.renderHeader(vm, width)
	footer := m.renderFooter(width)
	toasts := m.renderToasts(width)

	bodyHeight := height - 2 - lipgloss.Height(toasts)
	if toasts == "" {
		bodyHeight = height - 2
	}
	body := m.renderBody(vm, width, max(bodyHeight, 1))

	sections := []string{header, body}
	if toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, footer)
	base := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.screens.IsActive() {
		return overlayPopup(base, m.screens.Current().View(), 2)
	}
	return base
}

func (m *Model) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m *Model) viewHeight() int {
	if m.height <= 0 {
		return defaultHeight
	}
	return m.height
}

func (m *Model) renderHeader(vm panel.ViewModel, width int) string {
	style := lipgloss.NewStyle().
		Foreground(m.theme.AccentFg).
		Background(m.theme.Accent).
		Bold(true).
		Padding(0, 1).
		Width(width)

	title := "lazygitpanel"
	if vm.Workspace != "" {
		title += "  " + vm.Workspace
	}
	if vm.Busy {
		title += "  (working...)"
	}
	return style.Render(truncate.StringWithTail(title, uint(max(width-2, 1)), "…"))
}

func (m *Model) renderBody(vm panel.ViewModel, width, height int) string {
	style := lipgloss.NewStyle().Padding(0, 1).Width(width).Height(height)
	muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg)

	if !m.panel.Visible() {
		return style.Render(muted.Italic(true).Render("Panel hidden, press v to show it."))
	}

	switch vm.Kind {
	case panel.ViewNoWorkspace:
		return style.Render(vm.Lines()[0] + "\n" + muted.Render("Press w to open a directory."))
	case panel.ViewNotRepository:
		return style.Render(vm.Lines()[0] + "\n" + muted.Render("Press I to initialize a repository."))
	case panel.ViewLoading:
		return style.Render(muted.Render(vm.Lines()[0]))
	case panel.ViewError:
		errStyle := lipgloss.NewStyle().Foreground(m.theme.ErrorFg)
		text := wordwrap.String(vm.Lines()[0], max(width-2, 10))
		return style.Render(errStyle.Render(text) + "\n" + muted.Render("Press r to retry."))
	}

	lines := []string{m.renderBranch(vm)}
	if vm.Clean {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(m.theme.SuccessFg).Render("Working tree clean"))
		return style.Render(strings.Join(lines, "\n"))
	}

	header := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	var rows []string
	index := 0
	addSection := func(title string, files []panel.FileView) {
		if len(files) == 0 {
			return
		}
		rows = append(rows, header.Render(fmt.Sprintf("%s (%d)", title, len(files))))
		for _, f := range files {
			rows = append(rows, m.renderFileRow(f, index == m.cursor, width-2))
			index++
		}
	}
	addSection("Staged Changes", vm.Staged)
	addSection("Changes", vm.Unstaged)

	commit := m.renderCommitBox(vm, width-2)
	available := height - len(lines) - 1 - lipgloss.Height(commit)
	rows = m.scrollRows(rows, max(available, 1))

	lines = append(lines, "")
	lines = append(lines, rows...)
	if commit != "" {
		lines = append(lines, commit)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// scrollRows keeps the cursor row in view. Section headers count as rows,
// so the cursor's rendered index is recomputed from the file index.
func (m *Model) scrollRows(rows []string, height int) []string {
	if len(rows) <= height {
		m.offset = 0
		return rows
	}
	target := m.renderedIndex()
	if target < m.offset {
		m.offset = target
	}
	if target >= m.offset+height {
		m.offset = target - height + 1
	}
	m.offset = min(m.offset, len(rows)-height)
	return rows[m.offset : m.offset+height]
}

func (m *Model) renderedIndex() int {
	vm := m.panel.View()
	idx := m.cursor
	if len(vm.Staged) > 0 {
		idx++
	}
	if m.cursor >= len(vm.Staged) && len(vm.Unstaged) > 0 {
		idx++
	}
	return idx
}

func (m *Model) renderBranch(vm panel.ViewModel) string {
	branch := vm.Branch
	if vm.Detached {
		branch = "HEAD (detached)"
	}
	icon := ""
	if m.config.ShowIcons {
		icon = iconWithSpace(iconBranch)
	}
	out := lipgloss.NewStyle().Foreground(m.theme.Cyan).Bold(true).Render(icon + branch)

	var badges []string
	if vm.Ahead > 0 {
		badges = append(badges, fmt.Sprintf("↑%d", vm.Ahead))
	}
	if vm.Behind > 0 {
		badges = append(badges, fmt.Sprintf("↓%d", vm.Behind))
	}
	if len(badges) > 0 {
		out += " " + lipgloss.NewStyle().Foreground(m.theme.Pink).Render(strings.Join(badges, " "))
	}
	return out
}

func (m *Model) renderFileRow(f panel.FileView, selected bool, width int) string {
	code := lipgloss.NewStyle().Foreground(m.theme.StatusColor(f.Class)).Bold(true).Render(f.Code)
	name := f.Name
	if m.config.ShowIcons {
		name = iconWithSpace(deviconForName(f.Name)) + name
	}
	line := "  " + code + " " + name
	if f.Dir != "" {
		line += " " + lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render(f.Dir)
	}
	line = truncate.StringWithTail(line, uint(max(width, 1)), "…")
	if selected {
		return lipgloss.NewStyle().
			Background(m.theme.BorderDim).
			Foreground(m.theme.TextFg).
			Width(width).
			Render(line)
	}
	return line
}

func (m *Model) renderCommitBox(vm panel.ViewModel, width int) string {
	if !vm.ShowCommit {
		return ""
	}
	message := strings.SplitN(strings.TrimSpace(vm.Draft), "\n", 2)[0]
	hint := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	var status string
	if vm.CommitEnabled {
		status = lipgloss.NewStyle().Foreground(m.theme.SuccessFg).Render("ready to commit")
	} else {
		message = hint.Italic(true).Render("no message")
		status = lipgloss.NewStyle().Foreground(m.theme.WarnFg).Render("message required")
	}
	content := fmt.Sprintf("Commit: %s\n%s  %s", message, status, hint.Render("c edit, C amend"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(0, 1).
		Width(max(width-2, 10)).
		Render(content)
}

func (m *Model) renderToasts(width int) string {
	items := m.toasts.visible()
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(items))
	for _, t := range items {
		color := m.theme.Accent
		switch t.severity {
		case panel.SeveritySuccess:
			color = m.theme.SuccessFg
		case panel.SeverityError:
			color = m.theme.ErrorFg
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(color).
			Padding(0, 1).
			Width(width).
			Render(wordwrap.String(t.message, max(width-2, 10))))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter(width int) string {
	style := lipgloss.NewStyle().
		Foreground(m.theme.TextFg).
		Background(m.theme.BorderDim).
		Padding(0, 1).
		Width(width)

	k := m.keys
	hints := []string{
		m.renderKeyHint(k.Toggle.Help().Key, "Stage"),
		m.renderKeyHint(k.StageAll.Help().Key, "All"),
		m.renderKeyHint(k.Commit.Help().Key, "Commit"),
		m.renderKeyHint(k.Refresh.Help().Key, "Refresh"),
		m.renderKeyHint(k.Workspace.Help().Key, "Workspace"),
		m.renderKeyHint(k.Help.Help().Key, "Help"),
		m.renderKeyHint(k.Quit.Help().Key, "Quit"),
	}
	return style.Render(truncate.StringWithTail(strings.Join(hints, "  "), uint(max(width-2, 1)), "…"))
}

func (m *Model) renderKeyHint(key, label string) string {
	keyStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	return keyStyle.Render(key) + " " + label
}

// overlayPopup draws popup over base, centred horizontally, keeping the base
// visible on both sides.
func overlayPopup(base, popup string, marginTop int) string {
	if base == "" || popup == "" {
		return base
	}
	baseLines := strings.Split(base, "\n")
	popupLines := strings.Split(popup, "\n")

	baseWidth := lipgloss.Width(baseLines[0])
	popupWidth := lipgloss.Width(popupLines[0])
	leftPad := max((baseWidth-popupWidth)/2, 0)

	for i, line := range popupLines {
		row := marginTop + i
		if row >= len(baseLines) {
			break
		}
		leftPart := ansi.Truncate(baseLines[row], leftPad, "")
		if w := lipgloss.Width(leftPart); w < leftPad {
			leftPart += strings.Repeat(" ", leftPad-w)
		}
		rightPart := ansi.TruncateLeft(baseLines[row], leftPad+popupWidth, "")
		baseLines[row] = leftPart + line + rightPart
	}
	return strings.Join(baseLines, "\n")
}
