package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazygitpanel/internal/panel"
)

const (
	toastTTL  = 4 * time.Second
	maxToasts = 3
)

type toast struct {
	id       uint64
	message  string
	severity panel.Severity
}

// toastQueue collects panel notifications. Notify only records the toast;
// the host schedules expiry when it drains the queue after an update.
type toastQueue struct {
	items     []toast
	nextID    uint64
	scheduled []uint64
	ttl       time.Duration
	tick      panel.TickFunc
}

func newToastQueue(tick panel.TickFunc) *toastQueue {
	if tick == nil {
		tick = tea.Tick
	}
	return &toastQueue{ttl: toastTTL, tick: tick}
}

// Notify implements panel.Notifier.
func (q *toastQueue) Notify(message string, severity panel.Severity) {
	q.nextID++
	q.items = append(q.items, toast{id: q.nextID, message: message, severity: severity})
	if len(q.items) > maxToasts {
		q.items = q.items[len(q.items)-maxToasts:]
	}
	q.scheduled = append(q.scheduled, q.nextID)
}

// drain returns expiry timers for toasts added since the last call.
func (q *toastQueue) drain() tea.Cmd {
	if len(q.scheduled) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(q.scheduled))
	for _, id := range q.scheduled {
		cmds = append(cmds, q.tick(q.ttl, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		}))
	}
	q.scheduled = nil
	return tea.Batch(cmds...)
}

func (q *toastQueue) expire(id uint64) {
	for i, t := range q.items {
		if t.id == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

func (q *toastQueue) visible() []toast {
	return q.items
}
