// Package clock produces periodic tick events on a channel for the game loop.
package clock

import (
	"sync"
	"time"
)

// Backlog is how many undelivered ticks a Scheduler holds. Ticks past the
// backlog are dropped, so a consumer must drain C at least this often.
const Backlog = 32

// Scheduler delivers ticks at a fixed period while started. A consumer
// that polls C more slowly than the period finds every tick since its
// last poll waiting in the channel.
type Scheduler struct {
	period time.Duration
	out    chan time.Time

	mu     sync.Mutex
	stop   chan struct{}
	done   chan struct{}
	closed bool
}

// NewScheduler creates a stopped scheduler with the given period.
func NewScheduler(period time.Duration) *Scheduler {
	return &Scheduler{
		period: period,
		out:    make(chan time.Time, Backlog),
	}
}

// C returns the tick channel. It stays the same across Start and Stop.
func (s *Scheduler) C() <-chan time.Time {
	return s.out
}

// Running reports whether ticks are being produced.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// Start begins producing ticks. Calling Start on a running or closed
// scheduler does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
}

// Stop halts tick production, waits for the producer to exit and
// discards ticks nobody received.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
	s.drain()
}

func (s *Scheduler) drain() {
	for {
		select {
		case <-s.out:
		default:
			return
		}
	}
}

// Close stops the scheduler for good.
func (s *Scheduler) Close() {
	s.Stop()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Scheduler) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	t := time.NewTicker(s.period)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-t.C:
			select {
			case s.out <- now:
			default:
			}
		}
	}
}
