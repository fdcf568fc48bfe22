// Package screen provides the modal overlays drawn on top of the panel.
package screen

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Screen is a modal overlay that handles keys and renders itself.
type Screen interface {
	// Update processes a key. Returning a nil Screen closes the overlay.
	Update(msg tea.KeyMsg) (Screen, tea.Cmd)
	View() string
	Type() Type
}

// Type identifies the kind of screen being displayed.
type Type int

const (
	TypeNone Type = iota
	TypeConfirm
	TypeInput
	TypeCommit
	TypePalette
	TypeHelp
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeConfirm:
		return "confirm"
	case TypeInput:
		return "input"
	case TypeCommit:
		return "commit"
	case TypePalette:
		return "palette"
	case TypeHelp:
		return "help"
	default:
		return "unknown"
	}
}

const (
	keyEnter    = "enter"
	keyEsc      = "esc"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyQ        = "q"
	keyCtrlC    = "ctrl+c"
)

func clampInt(value, minValue, maxValue int) int {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}
