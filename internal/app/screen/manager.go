package screen

import tea "github.com/charmbracelet/bubbletea"

// Manager keeps a stack of overlays; only the top one receives keys.
type Manager struct {
	current Screen
	stack   []Screen
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Push shows s above the current overlay.
func (m *Manager) Push(s Screen) {
	if s == nil {
		return
	}
	if m.current != nil {
		m.stack = append(m.stack, m.current)
	}
	m.current = s
}

// Pop closes the current overlay and returns it.
func (m *Manager) Pop() Screen {
	removed := m.current
	m.current = nil
	if n := len(m.stack); n > 0 {
		m.current = m.stack[n-1]
		m.stack = m.stack[:n-1]
	}
	return removed
}

// Current returns the top overlay, or nil.
func (m *Manager) Current() Screen {
	return m.current
}

// IsActive reports whether an overlay is shown.
func (m *Manager) IsActive() bool {
	return m.current != nil
}

// Type returns the type of the top overlay.
func (m *Manager) Type() Type {
	if m.current == nil {
		return TypeNone
	}
	return m.current.Type()
}

// HandleKey routes a key to the top overlay and pops it when it closes. An
// overlay may open another one from its callbacks.
func (m *Manager) HandleKey(msg tea.KeyMsg) tea.Cmd {
	top := m.current
	if top == nil {
		return nil
	}
	next, cmd := top.Update(msg)
	if m.current != top {
		if next == nil {
			m.remove(top)
		}
		return cmd
	}
	if next == nil {
		m.Pop()
	} else {
		m.current = next
	}
	return cmd
}

func (m *Manager) remove(s Screen) {
	for i, queued := range m.stack {
		if queued == s {
			m.stack = append(m.stack[:i], m.stack[i+1:]...)
			return
		}
	}
}

// Clear closes every overlay.
func (m *Manager) Clear() {
	m.current = nil
	m.stack = nil
}

// StackDepth is the number of overlays below the current one.
func (m *Manager) StackDepth() int {
	return len(m.stack)
}
