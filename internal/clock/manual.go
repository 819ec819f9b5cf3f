package clock

import (
	"sync"
	"time"
)

// Manual is a clock advanced by hand, for tests and headless play.
type Manual struct {
	mu      sync.Mutex
	running bool
	now     time.Time
	period  time.Duration
	out     chan time.Time
}

// NewManual creates a stopped manual clock that advances by period per Fire.
func NewManual(period time.Duration) *Manual {
	return &Manual{
		period: period,
		out:    make(chan time.Time, 1),
	}
}

// C returns the tick channel.
func (m *Manual) C() <-chan time.Time {
	return m.out
}

// Start enables Fire.
func (m *Manual) Start() {
	m.mu.Lock()
	m.running = true
	m.mu.Unlock()
}

// Stop disables Fire.
func (m *Manual) Stop() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

// Running reports whether the clock is started.
func (m *Manual) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Fire delivers one tick if the clock is running. It blocks until the
// previous tick has been received and reports whether a tick was sent.
func (m *Manual) Fire() bool {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return false
	}
	m.now = m.now.Add(m.period)
	now := m.now
	m.mu.Unlock()

	m.out <- now
	return true
}
