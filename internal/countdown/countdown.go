// Package countdown provides the cancelable pre-capture countdown. It runs
// inside a bubbletea program: Start returns the first tick command and Update
// consumes the tick messages.
package countdown

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DefaultSeconds is the countdown start value
	DefaultSeconds = 3

	// DefaultInterval is the time between ticks
	DefaultInterval = time.Second
)

// Event is what a tick did to the timer
type Event int

const (
	// EventNone means the message was not for this timer or was stale
	EventNone Event = iota
	// EventTick means the remaining count decreased and is still above zero
	EventTick
	// EventDone means the count reached zero; it is emitted once per run
	EventDone
)

// TickMsg is delivered once per interval. Run identifies the Start call that
// scheduled it.
type TickMsg struct {
	Run uint64
}

// Timer is a single-flight countdown. It is not safe for concurrent use; it
// belongs to the goroutine running Update.
type Timer struct {
	interval  time.Duration
	run       uint64
	remaining int
	active    bool
}

// New creates a timer ticking every interval
func New(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Timer{interval: interval}
}

// Start begins a countdown from seconds, cancelling any run in progress
func (t *Timer) Start(seconds int) tea.Cmd {
	t.run++
	t.active = true
	t.remaining = seconds
	if seconds <= 0 {
		t.remaining = 0
		run := t.run
		return func() tea.Msg { return TickMsg{Run: run} }
	}
	return t.tick()
}

// Cancel stops the current run; its pending tick is dropped when it arrives
func (t *Timer) Cancel() {
	t.run++
	t.active = false
	t.remaining = 0
}

// Running reports whether a countdown is in progress
func (t *Timer) Running() bool {
	return t.active
}

// Remaining returns the value to display; zero when idle
func (t *Timer) Remaining() int {
	if !t.active {
		return 0
	}
	return t.remaining
}

// Update handles a tick and returns the next tick command, if any
func (t *Timer) Update(msg tea.Msg) (tea.Cmd, Event) {
	tick, ok := msg.(TickMsg)
	if !ok || !t.active || tick.Run != t.run {
		return nil, EventNone
	}

	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 {
		t.active = false
		return nil, EventDone
	}
	return t.tick(), EventTick
}

func (t *Timer) tick() tea.Cmd {
	run := t.run
	return tea.Tick(t.interval, func(time.Time) tea.Msg {
		return TickMsg{Run: run}
	})
}
