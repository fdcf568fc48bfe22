// Package theme provides colour palettes for the git panel TUI.
package theme

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines all colours used by the panel.
type Theme struct {
	Accent    lipgloss.Color
	AccentFg  lipgloss.Color // text drawn on Accent
	Border    lipgloss.Color
	BorderDim lipgloss.Color
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	SuccessFg lipgloss.Color
	WarnFg    lipgloss.Color
	ErrorFg   lipgloss.Color
	Cyan      lipgloss.Color
	Pink      lipgloss.Color
}

// Theme names.
const (
	DraculaName        = "dracula"
	NordName           = "nord"
	SolarizedLightName = "solarized-light"
	CleanLightName     = "clean-light"
)

// Dracula returns the Dracula theme (dark background, vibrant colours).
func Dracula() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#BD93F9"),
		AccentFg:  lipgloss.Color("#282A36"),
		Border:    lipgloss.Color("#6272A4"),
		BorderDim: lipgloss.Color("#44475A"),
		MutedFg:   lipgloss.Color("#6272A4"),
		TextFg:    lipgloss.Color("#F8F8F2"),
		SuccessFg: lipgloss.Color("#50FA7B"),
		WarnFg:    lipgloss.Color("#FFB86C"),
		ErrorFg:   lipgloss.Color("#FF5555"),
		Cyan:      lipgloss.Color("#8BE9FD"),
		Pink:      lipgloss.Color("#FF79C6"),
	}
}

// Nord returns the Nord theme.
func Nord() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#88C0D0"),
		AccentFg:  lipgloss.Color("#2E3440"),
		Border:    lipgloss.Color("#4C566A"),
		BorderDim: lipgloss.Color("#3B4252"),
		MutedFg:   lipgloss.Color("#616E88"),
		TextFg:    lipgloss.Color("#ECEFF4"),
		SuccessFg: lipgloss.Color("#A3BE8C"),
		WarnFg:    lipgloss.Color("#EBCB8B"),
		ErrorFg:   lipgloss.Color("#BF616A"),
		Cyan:      lipgloss.Color("#8FBCBB"),
		Pink:      lipgloss.Color("#B48EAD"),
	}
}

// SolarizedLight returns the Solarized light theme.
func SolarizedLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#268BD2"),
		AccentFg:  lipgloss.Color("#FDF6E3"),
		Border:    lipgloss.Color("#93A1A1"),
		BorderDim: lipgloss.Color("#EEE8D5"),
		MutedFg:   lipgloss.Color("#93A1A1"),
		TextFg:    lipgloss.Color("#586E75"),
		SuccessFg: lipgloss.Color("#859900"),
		WarnFg:    lipgloss.Color("#B58900"),
		ErrorFg:   lipgloss.Color("#DC322F"),
		Cyan:      lipgloss.Color("#2AA198"),
		Pink:      lipgloss.Color("#D33682"),
	}
}

// CleanLight returns a theme for light terminal backgrounds.
func CleanLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#0969DA"),
		AccentFg:  lipgloss.Color("#FFFFFF"),
		Border:    lipgloss.Color("#D0D7DE"),
		BorderDim: lipgloss.Color("#E1E4E8"),
		MutedFg:   lipgloss.Color("#6E7781"),
		TextFg:    lipgloss.Color("#24292F"),
		SuccessFg: lipgloss.Color("#1A7F37"),
		WarnFg:    lipgloss.Color("#9A6700"),
		ErrorFg:   lipgloss.Color("#CF222E"),
		Cyan:      lipgloss.Color("#0598BC"),
		Pink:      lipgloss.Color("#BF3989"),
	}
}

var registry = map[string]func() *Theme{
	DraculaName:        Dracula,
	NordName:           Nord,
	SolarizedLightName: SolarizedLight,
	CleanLightName:     CleanLight,
}

// GetTheme returns the named theme, falling back to Dracula.
func GetTheme(name string) *Theme {
	if ctor, ok := registry[Normalize(name)]; ok {
		return ctor()
	}
	return Dracula()
}

// Normalize lower-cases and trims name, returning "" for unknown themes.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := registry[name]; ok {
		return name
	}
	return ""
}

// AvailableThemes returns the sorted theme names.
func AvailableThemes() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StatusColor maps a status class (modified, added, ...) to a colour.
func (t *Theme) StatusColor(class string) lipgloss.Color {
	switch class {
	case "added", "untracked":
		return t.SuccessFg
	case "modified", "renamed", "copied":
		return t.WarnFg
	case "deleted", "unmerged":
		return t.ErrorFg
	default:
		return t.MutedFg
	}
}
