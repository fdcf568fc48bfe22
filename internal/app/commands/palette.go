package commands

// PaletteItem is a palette row: a section header or an action.
type PaletteItem struct {
	ID          string
	Label       string
	Description string
	Shortcut    string
	IsSection   bool
}

// BuildPaletteItems lists available actions grouped under their sections.
// Sections with no available action are left out.
func BuildPaletteItems(actions []Action) []PaletteItem {
	items := make([]PaletteItem, 0, len(actions)+4)
	currentSection := ""
	for _, action := range actions {
		if action.ID == "" || action.Handler == nil {
			continue
		}
		if action.Available != nil && !action.Available() {
			continue
		}
		if action.Section != "" && action.Section != currentSection {
			items = append(items, PaletteItem{Label: action.Section, IsSection: true})
			currentSection = action.Section
		}
		items = append(items, PaletteItem{
			ID:          action.ID,
			Label:       action.Label,
			Description: action.Description,
			Shortcut:    action.Shortcut,
		})
	}
	return items
}
