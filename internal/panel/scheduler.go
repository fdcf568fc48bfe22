package panel

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is the polling period used when none is configured.
const DefaultInterval = 5 * time.Second

// TickFunc arms a single timer. tea.Tick in production; tests record the
// callback and fire it by hand.
type TickFunc func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

var schedulerIDs atomic.Uint64

type tickMsg struct {
	id  uint64
	seq uint64
	at  time.Time
}

// Scheduler drives periodic refreshes. At most one timer is outstanding:
// every accepted tick re-arms exactly once, and ticks carrying another
// scheduler's id, an outdated arm sequence, or arriving after Stop, are
// dropped without re-arming.
type Scheduler struct {
	id       uint64
	seq      uint64
	interval time.Duration
	tick     TickFunc
	running  bool
	stopped  bool
}

// NewScheduler creates a scheduler. A non-positive interval disables it.
func NewScheduler(interval time.Duration, tick TickFunc) *Scheduler {
	if tick == nil {
		tick = tea.Tick
	}
	return &Scheduler{
		id:       schedulerIDs.Add(1),
		interval: interval,
		tick:     tick,
	}
}

// Interval returns the polling period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Running reports whether the scheduler has a live timer loop.
func (s *Scheduler) Running() bool {
	return s.running && !s.stopped
}

// Start arms the first timer. Calling it again, or after Stop, is a no-op.
func (s *Scheduler) Start() tea.Cmd {
	if s.stopped || s.running || s.interval <= 0 {
		return nil
	}
	s.running = true
	return s.arm()
}

// Stop tears the loop down. It is idempotent and final.
func (s *Scheduler) Stop() bool {
	if s.stopped {
		return false
	}
	s.stopped = true
	s.running = false
	return true
}

func (s *Scheduler) owns(msg tickMsg) bool {
	return msg.id == s.id && msg.seq == s.seq && s.Running()
}

func (s *Scheduler) arm() tea.Cmd {
	s.seq++
	id, seq := s.id, s.seq
	return s.tick(s.interval, func(t time.Time) tea.Msg {
		return tickMsg{id: id, seq: seq, at: t}
	})
}
